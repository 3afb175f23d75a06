package k8sadapter

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	apimeta "k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	weblogicerrors "github.com/thegridman/weblogic-kubernetes-operator/internal/errors"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/watch"
)

func (a *Adapter) patchCondition(ctx context.Context, namespace, domainUID string, cond metav1.Condition, message string) error {
	var domain weblogicv1alpha1.Domain
	key := types.NamespacedName{Namespace: namespace, Name: domainUID}
	if err := a.client.Get(ctx, key, &domain); err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("getting domain %s for condition update: %w", key, err)
	}
	apimeta.SetStatusCondition(&domain.Status.Conditions, cond)
	domain.Status.Message = message
	if err := a.client.Status().Update(ctx, &domain); err != nil {
		return fmt.Errorf("updating domain %s status: %w", key, err)
	}
	return nil
}

// ReportIntrospectorFailure implements watch.FailureReporter.
func (a *Adapter) ReportIntrospectorFailure(ctx context.Context, namespace, domainUID, message string) error {
	cond := asCondition("Failed", metav1.ConditionTrue, "IntrospectorJobFailed", message)
	return a.patchCondition(ctx, namespace, domainUID, cond, message)
}

// ReportProgressing implements watch.FailureReporter.
func (a *Adapter) ReportProgressing(ctx context.Context, namespace, domainUID string) error {
	cond := asCondition("Progressing", metav1.ConditionTrue, "IntrospectorRunning", "introspector job is still starting its container")
	return a.patchCondition(ctx, namespace, domainUID, cond, "")
}

// ReportMakeRightFailure implements retry.StatusFailureReporter.
func (a *Adapter) ReportMakeRightFailure(ctx context.Context, namespace, domainUID string, err error) error {
	message := err.Error()
	reason := "MakeRightFailed"
	if weblogicerrors.IsFatalIntrospector(err) {
		reason = weblogicerrors.FatalIntrospectorErrorToken
		message = fmt.Sprintf("%s: %s", weblogicerrors.FatalIntrospectorErrorToken, message)
	}
	cond := asCondition("Failed", metav1.ConditionTrue, reason, message)
	return a.patchCondition(ctx, namespace, domainUID, cond, message)
}

var _ watch.FailureReporter = (*Adapter)(nil)

// RecreateScriptConfigMap implements watch.ScriptConfigMapRecreator.
func (a *Adapter) RecreateScriptConfigMap(ctx context.Context, namespace, domainUID string) error {
	name := watch.ScriptConfigMapName(domainUID)
	key := types.NamespacedName{Namespace: namespace, Name: name}
	var existing corev1.ConfigMap
	if err := a.client.Get(ctx, key, &existing); err == nil {
		if err := a.client.Delete(ctx, &existing); err != nil && !apierrors.IsNotFound(err) {
			return fmt.Errorf("deleting stale script configmap %s: %w", key, err)
		}
	} else if !apierrors.IsNotFound(err) {
		return fmt.Errorf("getting script configmap %s: %w", key, err)
	}

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace, Labels: baseLabels(domainUID)},
	}
	if err := a.client.Create(ctx, cm); err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("creating script configmap %s: %w", key, err)
	}
	return nil
}

var _ watch.ScriptConfigMapRecreator = (*Adapter)(nil)

// ReadServerStatuses implements status.Reader: it derives each server's
// status from the Domain Presence Cache's cached pod and readiness
// observations, rather than issuing fresh Kubernetes reads on every tick.
func (a *Adapter) ReadServerStatuses(ctx context.Context, info *presence.DomainPresenceInfo) ([]weblogicv1alpha1.ServerStatus, []weblogicv1alpha1.ClusterStatus, error) {
	domain := info.Domain()
	if domain == nil {
		return nil, nil, nil
	}

	clusterOf := make(map[string]string)
	for _, ms := range domain.Spec.ManagedServers {
		clusterOf[ms.ServerName] = ms.ClusterName
	}

	var servers []weblogicv1alpha1.ServerStatus
	for name, pod := range info.ServerPods() {
		state := "UNKNOWN"
		if ready, ok := info.LastKnownServerStatus(name); ok {
			state = readinessToState(ready)
		} else if pod != nil {
			state = phaseToState(pod.Status.Phase)
		}
		servers = append(servers, weblogicv1alpha1.ServerStatus{
			ServerName:  name,
			State:       state,
			ClusterName: clusterOf[name],
			Health:      &weblogicv1alpha1.ServerHealth{OverallHealth: state},
		})
	}

	var clusters []weblogicv1alpha1.ClusterStatus
	for _, c := range domain.Spec.Clusters {
		running := int32(0)
		for name, cn := range clusterOf {
			if cn != c.ClusterName {
				continue
			}
			if _, ok := info.ServerPod(name); ok {
				running++
			}
		}
		max := c.DynamicClusterSize
		if max == 0 {
			for _, cn := range clusterOf {
				if cn == c.ClusterName {
					max++
				}
			}
		}
		clusters = append(clusters, weblogicv1alpha1.ClusterStatus{
			ClusterName:     c.ClusterName,
			Replicas:        running,
			MaximumReplicas: max,
		})
	}

	return servers, clusters, nil
}

func readinessToState(readiness string) string {
	switch readiness {
	case "succeeded":
		return "RUNNING"
	case "failed":
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

func phaseToState(phase corev1.PodPhase) string {
	switch phase {
	case corev1.PodRunning:
		return "RUNNING"
	case corev1.PodFailed:
		return "FAILED"
	case corev1.PodPending:
		return "STARTING"
	default:
		return "SHUTDOWN"
	}
}

// UpdateDomainStatus implements status.Writer.
func (a *Adapter) UpdateDomainStatus(ctx context.Context, info *presence.DomainPresenceInfo, servers []weblogicv1alpha1.ServerStatus, clusters []weblogicv1alpha1.ClusterStatus) error {
	var domain weblogicv1alpha1.Domain
	key := types.NamespacedName{Namespace: info.Namespace, Name: info.DomainUID}
	if err := a.client.Get(ctx, key, &domain); err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("getting domain %s for status update: %w", key, err)
	}
	domain.Status.Servers = servers
	domain.Status.Clusters = clusters
	if err := a.client.Status().Update(ctx, &domain); err != nil {
		return fmt.Errorf("writing domain %s status: %w", key, err)
	}
	return nil
}
