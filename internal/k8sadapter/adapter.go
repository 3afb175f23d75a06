// Package k8sadapter is the concrete, Kubernetes-backed implementation of
// every external-collaborator interface the reconciliation engine depends
// on but does not itself specify: makeright.Actuator, watch.FailureReporter,
// watch.ScriptConfigMapRecreator, status.Reader/Writer, and
// retry.StatusFailureReporter. Pod/service/job rendering here is
// intentionally minimal — the full WebLogic Server pod template (WDT
// mounts, introspector volumes, channel wiring) is the kind of
// domain-specific tooling spec §1 scopes out of this engine.
package k8sadapter

import (
	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
)

// Adapter implements every external-collaborator interface over a single
// controller-runtime client.Client.
type Adapter struct {
	client client.Client
	logger logr.Logger
}

// New builds an Adapter over c.
func New(c client.Client, logger logr.Logger) *Adapter {
	return &Adapter{client: c, logger: logger}
}

func introspectorConfigMapName(domainUID string) string {
	return domainUID + "-weblogic-domain-introspect-cm"
}

func introspectorJobName(domainUID string) string {
	return domainUID + "-introspector"
}

func adminPodName(domainUID string) string {
	return domainUID + "-admin-server"
}

func adminServiceName(domainUID string) string {
	return domainUID + "-admin-server"
}

func externalAdminServiceName(domainUID string) string {
	return domainUID + "-admin-server-ext"
}

func managedServerPodName(domainUID, serverName string) string {
	return domainUID + "-" + serverName
}

func managedServerServiceName(domainUID, serverName string) string {
	return domainUID + "-" + serverName
}

func baseLabels(domainUID string) map[string]string {
	return map[string]string{
		weblogicv1alpha1.LabelDomainUID:         domainUID,
		weblogicv1alpha1.LabelCreatedByOperator: "true",
	}
}

func serverLabels(domainUID, serverName string) map[string]string {
	l := baseLabels(domainUID)
	l[weblogicv1alpha1.LabelServerName] = serverName
	return l
}

func mergeLabels(dst map[string]string, extra map[string]string) map[string]string {
	for k, v := range extra {
		dst[k] = v
	}
	return dst
}

// podSpecFor renders the minimal container spec every server pod shares:
// the domain image plus whatever env/resources overrides the spec carries.
func podSpecFor(domain *weblogicv1alpha1.Domain, containerName string, override weblogicv1alpha1.ServerPod) corev1.PodSpec {
	return corev1.PodSpec{
		ImagePullSecrets: domain.Spec.ImagePullSecrets,
		Containers: []corev1.Container{
			{
				Name:      containerName,
				Image:     domain.Spec.Image,
				Env:       override.Env,
				Resources: override.Resources,
			},
		},
	}
}

func ownerLabelSelector(domainUID string) client.MatchingLabels {
	return client.MatchingLabels{weblogicv1alpha1.LabelDomainUID: domainUID}
}

func asCondition(condType string, status metav1.ConditionStatus, reason, message string) metav1.Condition {
	return metav1.Condition{
		Type:               condType,
		Status:             status,
		Reason:             reason,
		Message:            message,
		LastTransitionTime: metav1.Now(),
	}
}

