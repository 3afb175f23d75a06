package watch

import (
	"strings"

	corev1 "k8s.io/api/core/v1"
)

// ReadinessParser extracts a server's readiness state from the message text
// of a readiness Event, per spec §4.4's "Readiness probe ... <state>"
// contract.
type ReadinessParser interface {
	Parse(message string) (state string, ok bool)
}

const readinessProbeToken = "Readiness probe"

// SubstringReadinessParser is the default parser: it looks for the literal
// substrings the kubelet's generated Event messages carry ("Readiness
// probe failed: ..." / "Readiness probe succeeded"). This is the parser
// spec §4.4 describes directly.
type SubstringReadinessParser struct{}

// Parse implements ReadinessParser.
func (SubstringReadinessParser) Parse(message string) (string, bool) {
	if !strings.Contains(message, readinessProbeToken) {
		return "", false
	}
	switch {
	case strings.Contains(message, "succeeded"):
		return "succeeded", true
	case strings.Contains(message, "failed"):
		return "failed", true
	default:
		return "unknown", true
	}
}

// PodConditionObserver inspects a Pod's structured v1.PodCondition{Type:
// PodReady} to derive the same readiness state the substring parser reads
// out of Event text, but from a source that cannot drift out of sync with
// the kubelet's own message wording. DESIGN.md's Open Question 2 decision
// runs both in parallel rather than choosing one.
type PodConditionObserver interface {
	Observe(pod *corev1.Pod) (state string, ok bool)
}

// PodConditionParser implements PodConditionObserver.
type PodConditionParser struct{}

// Observe implements PodConditionObserver.
func (PodConditionParser) Observe(pod *corev1.Pod) (string, bool) {
	for _, cond := range pod.Status.Conditions {
		if cond.Type != corev1.PodReady {
			continue
		}
		if cond.Status == corev1.ConditionTrue {
			return "succeeded", true
		}
		return "failed", true
	}
	return "", false
}
