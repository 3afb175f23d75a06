// Package testutil centralizes test fixture creation for the reconciliation
// engine: a TestDataFactory for Domain/Pod/Service/ConfigMap objects, and
// fake implementations of the engine's external-collaborator interfaces so
// unit tests can drive make-right, watch, status, and retry logic without a
// real Kubernetes API server.
package testutil

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
)

// Default test values, following the teacher's convention of naming magic
// constants rather than repeating literals across fixtures.
const (
	DefaultTestNamespace = "default"
	DefaultDomainUID     = "test-domain"
	DefaultImage         = "weblogic:12.2.1.4"
	DefaultCredsSecret   = "test-domain-weblogic-credentials"
	DefaultClusterName   = "cluster-1"
	DefaultReplicas      = int32(2)
)

// TestDataFactory provides centralized test data creation for the domain
// reconciliation engine's test suites.
type TestDataFactory struct{}

// NewTestDataFactory creates a new test data factory.
func NewTestDataFactory() *TestDataFactory {
	return &TestDataFactory{}
}

// CreateStandardDomain creates a minimal, valid Domain with one cluster and
// the domain-wide default IF_NEEDED start policy.
func (f *TestDataFactory) CreateStandardDomain() *weblogicv1alpha1.Domain {
	replicas := DefaultReplicas
	return &weblogicv1alpha1.Domain{
		ObjectMeta: metav1.ObjectMeta{
			Name:            DefaultDomainUID,
			Namespace:       DefaultTestNamespace,
			Generation:      1,
			ResourceVersion: "1",
			Labels: map[string]string{
				weblogicv1alpha1.LabelDomainUID: DefaultDomainUID,
			},
		},
		Spec: weblogicv1alpha1.DomainSpec{
			DomainHomeSourceType:      weblogicv1alpha1.DomainSourceImage,
			Image:                     DefaultImage,
			WebLogicCredentialsSecret: DefaultCredsSecret,
			ServerStartPolicy:         weblogicv1alpha1.StartPolicyIfNeeded,
			IntrospectVersion:         "1",
			AdminServer:               weblogicv1alpha1.AdminServerSpec{},
			Clusters: []weblogicv1alpha1.ClusterSpec{
				{
					ClusterName: DefaultClusterName,
					Replicas:    &replicas,
				},
			},
		},
	}
}

// CreateModelInImageDomain creates a Domain sourced FromModel with online
// update enabled, for exercising CoerceOnlineUpdate.
func (f *TestDataFactory) CreateModelInImageDomain() *weblogicv1alpha1.Domain {
	d := f.CreateStandardDomain()
	d.Spec.DomainHomeSourceType = weblogicv1alpha1.DomainSourceFromModel
	d.Spec.Configuration.Model = weblogicv1alpha1.ModelConfiguration{
		DomainType:              "WLS",
		RuntimeEncryptionSecret: "test-domain-runtime-encryption-secret",
		OnlineUpdate:            weblogicv1alpha1.OnlineUpdate{Enabled: true},
	}
	return d
}

// CreateDynamicClusterDomain creates a Domain with a dynamic cluster sized
// to dynamicSize, for exercising the dynamic cluster index validation path.
func (f *TestDataFactory) CreateDynamicClusterDomain(dynamicSize int32) *weblogicv1alpha1.Domain {
	d := f.CreateStandardDomain()
	d.Spec.Clusters[0].DynamicClusterSize = dynamicSize
	return d
}

// CreateManagedServer creates a ManagedServerSpec with the given policy,
// belonging to clusterName (empty for a standalone server).
func (f *TestDataFactory) CreateManagedServer(name, clusterName string, policy weblogicv1alpha1.StartPolicy) weblogicv1alpha1.ManagedServerSpec {
	return weblogicv1alpha1.ManagedServerSpec{
		ServerName:        name,
		ClusterName:       clusterName,
		ServerStartPolicy: policy,
	}
}

// CreateServerPod creates a Pod carrying the operator's ownership labels for
// serverName within domainUID, in namespace, with phase set to Running and
// a Ready condition true.
func (f *TestDataFactory) CreateServerPod(namespace, domainUID, serverName string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      domainUID + "-" + serverName,
			Namespace: namespace,
			Labels: map[string]string{
				weblogicv1alpha1.LabelDomainUID:  domainUID,
				weblogicv1alpha1.LabelServerName: serverName,
			},
		},
		Status: corev1.PodStatus{
			Phase: corev1.PodRunning,
			Conditions: []corev1.PodCondition{
				{Type: corev1.PodReady, Status: corev1.ConditionTrue},
			},
		},
	}
}

// CreateIntrospectorPod creates a Pod labeled as an introspector job pod for
// domainUID, with a failing container state carrying message.
func (f *TestDataFactory) CreateIntrospectorPod(namespace, domainUID, message string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      domainUID + "-introspector-abcde",
			Namespace: namespace,
			Labels: map[string]string{
				weblogicv1alpha1.LabelDomainUID: domainUID,
				weblogicv1alpha1.LabelJobName:   domainUID + "-introspector",
			},
		},
		Status: corev1.PodStatus{
			Phase: corev1.PodPending,
			ContainerStatuses: []corev1.ContainerStatus{
				{
					Name: "introspector",
					State: corev1.ContainerState{
						Waiting: &corev1.ContainerStateWaiting{
							Reason:  "ImagePullBackOff",
							Message: message,
						},
					},
				},
			},
		},
	}
}

// CreateServerService creates a Service carrying the operator's ownership
// labels for serverName within domainUID.
func (f *TestDataFactory) CreateServerService(namespace, domainUID, serverName string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      domainUID + "-" + serverName,
			Namespace: namespace,
			Labels: map[string]string{
				weblogicv1alpha1.LabelDomainUID:  domainUID,
				weblogicv1alpha1.LabelServerName: serverName,
			},
		},
	}
}

// CreateScriptConfigMap creates the script ConfigMap for domainUID.
func (f *TestDataFactory) CreateScriptConfigMap(namespace, domainUID string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      domainUID + "-weblogic-domain-scripts-cm",
			Namespace: namespace,
			Labels: map[string]string{
				weblogicv1alpha1.LabelDomainUID: domainUID,
			},
		},
	}
}

// CreateReadinessEvent creates an Event labeled for domainUID/serverName
// carrying message as its readiness probe text.
func (f *TestDataFactory) CreateReadinessEvent(namespace, domainUID, serverName, message string) *corev1.Event {
	return &corev1.Event{
		ObjectMeta: metav1.ObjectMeta{
			Name:      domainUID + "-" + serverName + "-readiness",
			Namespace: namespace,
			Labels: map[string]string{
				weblogicv1alpha1.LabelDomainUID:  domainUID,
				weblogicv1alpha1.LabelServerName: serverName,
			},
		},
		InvolvedObject: corev1.ObjectReference{Name: domainUID + "-" + serverName},
		Message:        message,
	}
}
