// Package watch implements the Watch Dispatcher: the per-kind reaction
// table in spec §4.4 that turns raw Domain/Pod/Service/ConfigMap/Event
// watch notifications into Domain Presence Cache updates and Make-Right
// Planner triggers.
package watch

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/makeright"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

// MakeRightTrigger is the narrow slice of *makeright.Runner the dispatcher
// depends on, so it can be driven by a fake in tests.
type MakeRightTrigger interface {
	Trigger(ctx context.Context, namespace, domainUID string, live *weblogicv1alpha1.Domain, opts makeright.RunOptions)
}

// FailureReporter records introspector job outcomes observed directly from
// pod status onto the Domain's status subresource, independent of whatever
// make-right fiber (if any) is currently suspended waiting for the job.
type FailureReporter interface {
	ReportIntrospectorFailure(ctx context.Context, namespace, domainUID, message string) error
	ReportProgressing(ctx context.Context, namespace, domainUID string) error
}

// ScriptConfigMapRecreator rebuilds the domain's script ConfigMap when the
// dispatcher observes it changed or was deleted out from under the operator.
type ScriptConfigMapRecreator interface {
	RecreateScriptConfigMap(ctx context.Context, namespace, domainUID string) error
}

// Dispatcher implements the per-kind table from spec §4.4. Every method is
// pure with respect to Kubernetes I/O beyond its injected collaborators, so
// it is testable without a manager or API server.
type Dispatcher struct {
	cache     *presence.Cache
	trigger   MakeRightTrigger
	reporter  FailureReporter
	configMap ScriptConfigMapRecreator
	readiness ReadinessParser
	podCond   PodConditionObserver
	logger    logr.Logger
}

// NewDispatcher builds a Dispatcher. readiness defaults to
// SubstringReadinessParser{} when nil; podCond is optional and, when set,
// runs its structured observation in parallel with the message parser.
func NewDispatcher(cache *presence.Cache, trigger MakeRightTrigger, reporter FailureReporter, configMap ScriptConfigMapRecreator, readiness ReadinessParser, logger logr.Logger) *Dispatcher {
	if readiness == nil {
		readiness = SubstringReadinessParser{}
	}
	return &Dispatcher{
		cache:     cache,
		trigger:   trigger,
		reporter:  reporter,
		configMap: configMap,
		readiness: readiness,
		logger:    logger,
	}
}

// WithPodConditionObserver enables the parallel structured-condition
// readiness path described in DESIGN.md's Open Question 2 decision.
func (d *Dispatcher) WithPodConditionObserver(obs PodConditionObserver) *Dispatcher {
	d.podCond = obs
	return d
}

// --- Domain ---

// DomainAdded starts make-right with interrupt, per the per-kind table: a
// freshly observed Domain always preempts whatever (if anything) is
// currently running for that key.
func (d *Dispatcher) DomainAdded(ctx context.Context, domain *weblogicv1alpha1.Domain) {
	d.trigger.Trigger(ctx, domain.Namespace, domain.DomainUID(), domain, makeright.RunOptions{Interrupt: true})
}

// DomainModified routes a metadata-only change (generation unchanged from
// the cached Domain, e.g. the operator's own status write echoing back)
// to the status path instead of a full make-right, per spec §4.4's stale
// event rule; anything else starts make-right without interrupt.
func (d *Dispatcher) DomainModified(ctx context.Context, domain *weblogicv1alpha1.Domain) {
	uid := domain.DomainUID()
	info := d.cache.GetOrCreate(domain.Namespace, uid)
	if cached := info.Domain(); cached != nil && cached.Generation == domain.Generation {
		info.SetDomain(domain)
		return
	}
	d.trigger.Trigger(ctx, domain.Namespace, uid, domain, makeright.RunOptions{})
}

// DomainDeleted starts the down-plan: interrupt, forDeletion, explicitRecheck.
func (d *Dispatcher) DomainDeleted(ctx context.Context, domain *weblogicv1alpha1.Domain) {
	d.trigger.Trigger(ctx, domain.Namespace, domain.DomainUID(), domain, makeright.RunOptions{
		Interrupt:       true,
		ForDeletion:     true,
		ExplicitRecheck: true,
	})
}

// --- ServerPod ---

func serverPodKeys(pod *corev1.Pod) (domainUID, serverName string, ok bool) {
	domainUID = pod.Labels[weblogicv1alpha1.LabelDomainUID]
	serverName = pod.Labels[weblogicv1alpha1.LabelServerName]
	return domainUID, serverName, domainUID != "" && serverName != ""
}

// ServerPodAddedOrModified updates the cached pod and clears any
// being-deleted marker, and folds in the parallel pod-condition readiness
// observation when one is configured. An event carrying a resourceVersion
// no newer than the cached pod's is ignored per spec §4.3.
func (d *Dispatcher) ServerPodAddedOrModified(ctx context.Context, pod *corev1.Pod) {
	domainUID, serverName, ok := serverPodKeys(pod)
	if !ok {
		return
	}
	info := d.cache.GetOrCreate(pod.Namespace, domainUID)
	if cached, ok := info.ServerPod(serverName); ok {
		if presence.IsStaleEvent(cached.ResourceVersion, pod.ResourceVersion, cached.CreationTimestamp.Time, pod.CreationTimestamp.Time) {
			return
		}
	}
	info.SetServerPod(serverName, pod)
	info.SetBeingDeleted(serverName, false)
	if d.podCond != nil {
		if state, ok := d.podCond.Observe(pod); ok {
			info.SetLastKnownServerStatus(serverName, state)
		}
	}
}

// ServerPodDeleted starts make-right with interrupt + explicitRecheck
// unless the delete was intentional (the managed-servers-bring-up step
// marked it being-deleted) or the domain is already tearing down. A DELETE
// whose UID differs from the cached pod's is ignored entirely.
func (d *Dispatcher) ServerPodDeleted(ctx context.Context, pod *corev1.Pod) {
	domainUID, serverName, ok := serverPodKeys(pod)
	if !ok {
		return
	}
	info, ok := d.cache.Get(pod.Namespace, domainUID)
	if !ok {
		return
	}
	if cached, had := info.ServerPod(serverName); had && cached.UID != pod.UID {
		return
	}
	intentional := info.BeingDeleted(serverName)
	info.DeleteServerPod(serverName, pod.UID)
	info.SetBeingDeleted(serverName, false)
	if intentional || info.Deleting() {
		return
	}
	d.trigger.Trigger(ctx, pod.Namespace, domainUID, info.Domain(), makeright.RunOptions{
		Interrupt:       true,
		ExplicitRecheck: true,
	})
}

// --- IntrospectorJob Pod ---

// IntrospectorJobPod inspects an introspector job's pod status directly:
// a failure (failed phase, unschedulable, a waiting container carrying a
// message, or a non-zero terminated container) reports a status failure;
// a container waiting with no message while the pod is otherwise healthy
// reports "progressing".
func (d *Dispatcher) IntrospectorJobPod(ctx context.Context, pod *corev1.Pod) {
	domainUID := pod.Labels[weblogicv1alpha1.LabelDomainUID]
	if domainUID == "" || d.reporter == nil {
		return
	}
	if message, failed := introspectorFailureMessage(pod); failed {
		if err := d.reporter.ReportIntrospectorFailure(ctx, pod.Namespace, domainUID, message); err != nil {
			d.logger.Error(err, "failed to report introspector failure", "namespace", pod.Namespace, "domainUID", domainUID)
		}
		return
	}
	if containerWaitingDuringSuccess(pod) {
		if err := d.reporter.ReportProgressing(ctx, pod.Namespace, domainUID); err != nil {
			d.logger.Error(err, "failed to report introspector progressing", "namespace", pod.Namespace, "domainUID", domainUID)
		}
	}
}

func introspectorFailureMessage(pod *corev1.Pod) (string, bool) {
	if pod.Status.Phase == corev1.PodFailed {
		return fmt.Sprintf("introspector pod %s failed: %s", pod.Name, pod.Status.Message), true
	}
	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodScheduled && cond.Status == corev1.ConditionFalse && cond.Reason == "Unschedulable" {
			return fmt.Sprintf("introspector pod %s unschedulable: %s", pod.Name, cond.Message), true
		}
	}
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.State.Waiting != nil && cs.State.Waiting.Message != "" {
			return fmt.Sprintf("introspector pod %s container %s waiting: %s", pod.Name, cs.Name, cs.State.Waiting.Message), true
		}
		if cs.State.Terminated != nil && cs.State.Terminated.ExitCode != 0 {
			return fmt.Sprintf("introspector pod %s container %s terminated: %s", pod.Name, cs.Name, cs.State.Terminated.Message), true
		}
	}
	return "", false
}

func containerWaitingDuringSuccess(pod *corev1.Pod) bool {
	if pod.Status.Phase != corev1.PodRunning && pod.Status.Phase != corev1.PodPending {
		return false
	}
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.State.Waiting != nil && cs.State.Waiting.Message == "" {
			return true
		}
	}
	return false
}

// --- Service ---

// ServiceAddedOrModified attaches the observed service to the cache. An
// event carrying a resourceVersion no newer than the cached service's is
// ignored per spec §4.3.
func (d *Dispatcher) ServiceAddedOrModified(ctx context.Context, svc *corev1.Service) {
	domainUID := svc.Labels[weblogicv1alpha1.LabelDomainUID]
	if domainUID == "" {
		return
	}
	info := d.cache.GetOrCreate(svc.Namespace, domainUID)
	if cached, ok := info.Service(svc.Name); ok {
		if presence.IsStaleEvent(cached.ResourceVersion, svc.ResourceVersion, cached.CreationTimestamp.Time, svc.CreationTimestamp.Time) {
			return
		}
	}
	info.SetService(svc.Name, svc)
}

// ServiceDeleted starts make-right with interrupt + explicitRecheck unless
// the domain is already tearing down. A DELETE whose UID differs from the
// cached service's is ignored entirely.
func (d *Dispatcher) ServiceDeleted(ctx context.Context, svc *corev1.Service) {
	domainUID := svc.Labels[weblogicv1alpha1.LabelDomainUID]
	if domainUID == "" {
		return
	}
	info, ok := d.cache.Get(svc.Namespace, domainUID)
	if !ok {
		return
	}
	if cached, had := info.Service(svc.Name); had && cached.UID != svc.UID {
		return
	}
	info.DeleteService(svc.Name, svc.UID)
	if info.Deleting() {
		return
	}
	d.trigger.Trigger(ctx, svc.Namespace, domainUID, info.Domain(), makeright.RunOptions{
		Interrupt:       true,
		ExplicitRecheck: true,
	})
}

// --- ConfigMap ---

// ScriptConfigMapName follows the same toXName(domainUid) convention as
// introspectorConfigMapName in internal/makeright/plan.go.
func ScriptConfigMapName(domainUID string) string {
	return domainUID + "-weblogic-domain-scripts-cm"
}

// ConfigMapModified recreates the script ConfigMap if the one that changed
// is this domain's.
func (d *Dispatcher) ConfigMapModified(ctx context.Context, cm *corev1.ConfigMap) {
	d.handleScriptConfigMapChange(ctx, cm)
}

// ConfigMapDeleted recreates the script ConfigMap if the one deleted was
// this domain's — same handling as a modification, per the per-kind table.
func (d *Dispatcher) ConfigMapDeleted(ctx context.Context, cm *corev1.ConfigMap) {
	d.handleScriptConfigMapChange(ctx, cm)
}

func (d *Dispatcher) handleScriptConfigMapChange(ctx context.Context, cm *corev1.ConfigMap) {
	domainUID := cm.Labels[weblogicv1alpha1.LabelDomainUID]
	if domainUID == "" || cm.Name != ScriptConfigMapName(domainUID) || d.configMap == nil {
		return
	}
	if err := d.configMap.RecreateScriptConfigMap(ctx, cm.Namespace, domainUID); err != nil {
		d.logger.Error(err, "failed to recreate script configmap", "namespace", cm.Namespace, "domainUID", domainUID)
	}
}

// --- Event (readiness) ---

// EventAdded parses a readiness Event's message and records the server's
// last known status in the cache. Events the operator did not label with
// a domainUID/serverName, or whose message does not match the readiness
// probe contract, are ignored.
func (d *Dispatcher) EventAdded(ctx context.Context, event *corev1.Event) {
	domainUID := event.Labels[weblogicv1alpha1.LabelDomainUID]
	if domainUID == "" {
		return
	}
	state, ok := d.readiness.Parse(event.Message)
	if !ok {
		return
	}
	info, ok := d.cache.Get(event.Namespace, domainUID)
	if !ok {
		return
	}
	serverName := event.Labels[weblogicv1alpha1.LabelServerName]
	if serverName == "" {
		serverName = event.InvolvedObject.Name
	}
	info.SetLastKnownServerStatus(serverName, state)
}
