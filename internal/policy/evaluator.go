// Package policy computes the effective start policy for each managed
// server and the started set for a cluster, per a stable ordering rule
// independent of input order.
package policy

import (
	"regexp"
	"sort"
	"strconv"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
)

// ServerEntry is one server under consideration by the evaluator: its
// stable-ordering name and its already-resolved effective policy.
type ServerEntry struct {
	Name   string
	Policy weblogicv1alpha1.StartPolicy
}

// EffectivePolicy resolves the most-specific non-empty policy of server
// override, cluster policy, domain policy, defaulting to IF_NEEDED.
func EffectivePolicy(serverOverride, clusterPolicy, domainPolicy weblogicv1alpha1.StartPolicy) weblogicv1alpha1.StartPolicy {
	if serverOverride != "" {
		return serverOverride
	}
	if clusterPolicy != "" {
		return clusterPolicy
	}
	if domainPolicy != "" {
		return domainPolicy
	}
	return weblogicv1alpha1.StartPolicyIfNeeded
}

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// naturalLess orders server names the way the spec's "natural-numeric
// order by name" requires: common prefix first, then numeric comparison of
// any trailing digit run, falling back to a plain string comparison.
func naturalLess(a, b string) bool {
	am := trailingDigits.FindStringIndex(a)
	bm := trailingDigits.FindStringIndex(b)
	if am == nil || bm == nil {
		return a < b
	}
	aPrefix, bPrefix := a[:am[0]], b[:bm[0]]
	if aPrefix != bPrefix {
		return a < b
	}
	an, aerr := strconv.Atoi(a[am[0]:am[1]])
	bn, berr := strconv.Atoi(b[bm[0]:bm[1]])
	if aerr != nil || berr != nil {
		return a < b
	}
	return an < bn
}

// SortStatic orders a static cluster's server names in natural-numeric order.
func SortStatic(names []string) []string {
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool { return naturalLess(out[i], out[j]) })
	return out
}

// DynamicServerNames generates the "<prefix><i>" names for a dynamic
// cluster of size n, i ranging over [1, n].
func DynamicServerNames(prefix string, n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, prefix+strconv.Itoa(i))
	}
	return out
}

// StartedSet implements the spec's started-set algorithm: partition into
// ALWAYS (A) and non-ALWAYS (B), each preserving the caller's ordering,
// walk A then B counting toward replicas, and return the set of server
// names that must run. The result depends only on each entry's (name,
// policy) pair, never on the order servers were supplied in, beyond the
// stable ordering already baked into entries by the caller (P3).
func StartedSet(entries []ServerEntry, replicas int) map[string]bool {
	var always, rest []ServerEntry
	for _, e := range entries {
		if e.Policy == weblogicv1alpha1.StartPolicyAlways {
			always = append(always, e)
		} else {
			rest = append(rest, e)
		}
	}

	started := make(map[string]bool, len(entries))
	c := 0
	for _, e := range append(append([]ServerEntry{}, always...), rest...) {
		switch e.Policy {
		case weblogicv1alpha1.StartPolicyAlways:
			started[e.Name] = true
			c++
		case weblogicv1alpha1.StartPolicyNever:
			// never started
		default:
			if c < replicas {
				started[e.Name] = true
				c++
			}
		}
	}
	return started
}
