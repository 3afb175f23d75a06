/*
Copyright 2026 The WebLogic Kubernetes Operator Contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// DomainSourceType selects where the domain home configuration comes from.
// +kubebuilder:validation:Enum=Image;FromModel;PersistentVolume
type DomainSourceType string

const (
	DomainSourceImage          DomainSourceType = "Image"
	DomainSourceFromModel      DomainSourceType = "FromModel"
	DomainSourcePersistentVolume DomainSourceType = "PersistentVolume"
)

// StartPolicy is the declared policy for whether a server should run.
// +kubebuilder:validation:Enum=NEVER;IF_NEEDED;ADMIN_ONLY;ALWAYS
type StartPolicy string

const (
	StartPolicyNever     StartPolicy = "NEVER"
	StartPolicyIfNeeded  StartPolicy = "IF_NEEDED"
	StartPolicyAdminOnly StartPolicy = "ADMIN_ONLY"
	StartPolicyAlways    StartPolicy = "ALWAYS"
)

// ServerPod carries the pod-template overrides the engine's pod-spec steps
// apply; the step bodies that render these into a corev1.PodSpec are an
// external collaborator and not specified here.
type ServerPod struct {
	// env is a list of environment variable overrides applied to the server container.
	// +optional
	Env []corev1.EnvVar `json:"env,omitempty"`

	// resources overrides the server container's resource requirements.
	// +optional
	Resources corev1.ResourceRequirements `json:"resources,omitempty"`

	// labels are additional labels merged onto the generated pod.
	// +optional
	Labels map[string]string `json:"labels,omitempty"`

	// annotations are additional annotations merged onto the generated pod.
	// +optional
	Annotations map[string]string `json:"annotations,omitempty"`
}

// ShutdownOptions controls how a server is shut down.
type ShutdownOptions struct {
	// timeoutSeconds bounds a graceful shutdown.
	// +kubebuilder:default=30
	// +optional
	TimeoutSeconds int32 `json:"timeoutSeconds,omitempty"`

	// ignoreSessions, when true, skips waiting for in-flight HTTP sessions to drain.
	// +optional
	IgnoreSessions bool `json:"ignoreSessions,omitempty"`
}

// AdminServerSpec configures the administration server.
type AdminServerSpec struct {
	// serverStartState is the desired WebLogic running state once started.
	// +optional
	ServerStartState string `json:"serverStartState,omitempty"`

	// serverPod carries pod-template overrides for the admin server.
	// +optional
	ServerPod ServerPod `json:"serverPod,omitempty"`

	// adminService configures the optional externally reachable admin service.
	// +optional
	AdminService *AdminService `json:"adminService,omitempty"`
}

// AdminService describes an external NodePort/LoadBalancer service exposing
// admin channels.
type AdminService struct {
	// channels lists the named channels to expose externally.
	// +optional
	Channels []AdminChannel `json:"channels,omitempty"`
}

// AdminChannel maps one admin server channel to an external port.
type AdminChannel struct {
	// channelName identifies the WebLogic network channel.
	// +kubebuilder:validation:Required
	ChannelName string `json:"channelName"`

	// nodePort is the externally reachable port, or 0 to let Kubernetes assign one.
	// +optional
	NodePort int32 `json:"nodePort,omitempty"`
}

// ClusterSpec configures one WebLogic cluster and its managed server replicas.
type ClusterSpec struct {
	// clusterName identifies the cluster as defined in the domain configuration.
	// +kubebuilder:validation:Required
	ClusterName string `json:"clusterName"`

	// replicas is the desired total number of managed servers to run in this
	// cluster; servers with an ALWAYS policy count toward it.
	// +kubebuilder:validation:Minimum=0
	// +optional
	Replicas *int32 `json:"replicas,omitempty"`

	// serverStartState is the desired WebLogic running state for servers in this cluster.
	// +optional
	ServerStartState string `json:"serverStartState,omitempty"`

	// serverStartPolicy overrides the domain-level policy for every server in this cluster.
	// +optional
	ServerStartPolicy StartPolicy `json:"serverStartPolicy,omitempty"`

	// serverPod carries pod-template overrides applied to every server in this cluster.
	// +optional
	ServerPod ServerPod `json:"serverPod,omitempty"`

	// shutdown overrides shutdown behavior for servers in this cluster.
	// +optional
	Shutdown *ShutdownOptions `json:"shutdown,omitempty"`

	// restartVersion is compared as part of the spec when deciding whether to
	// run make-right; a change does not by itself restart or recreate pods.
	// +optional
	RestartVersion string `json:"restartVersion,omitempty"`

	// dynamicClusterSize, when non-zero, marks this cluster as dynamic with
	// servers named by the prefix convention "<clusterName>-server<i>".
	// +optional
	DynamicClusterSize int32 `json:"dynamicClusterSize,omitempty"`
}

// ManagedServerSpec configures one explicitly named managed server, whether
// or not it belongs to a cluster.
type ManagedServerSpec struct {
	// serverName identifies the managed server as defined in the domain configuration.
	// +kubebuilder:validation:Required
	ServerName string `json:"serverName"`

	// clusterName identifies the static cluster this server belongs to, if any.
	// +optional
	ClusterName string `json:"clusterName,omitempty"`

	// serverStartPolicy overrides the cluster/domain policy for this single server.
	// +optional
	ServerStartPolicy StartPolicy `json:"serverStartPolicy,omitempty"`

	// restartVersion is compared as part of the spec when deciding whether to
	// run make-right; a change does not by itself recreate this server's pod.
	// +optional
	RestartVersion string `json:"restartVersion,omitempty"`

	// serverPod carries pod-template overrides applied to this server.
	// +optional
	ServerPod ServerPod `json:"serverPod,omitempty"`

	// shutdown overrides shutdown behavior for this server.
	// +optional
	Shutdown *ShutdownOptions `json:"shutdown,omitempty"`
}

// OnlineUpdate configures the WDT online update feature for Model-in-Image domains.
type OnlineUpdate struct {
	// enabled turns on online update of the running domain's configuration.
	// +optional
	Enabled bool `json:"enabled,omitempty"`
}

// ModelConfiguration configures Model-in-Image domain sourcing.
type ModelConfiguration struct {
	// domainType is the WebLogic domain type, e.g. "WLS" or "JRF".
	// +optional
	DomainType string `json:"domainType,omitempty"`

	// runtimeEncryptionSecret names the secret used to encrypt runtime model artifacts.
	// +optional
	RuntimeEncryptionSecret string `json:"runtimeEncryptionSecret,omitempty"`

	// onlineUpdate configures WDT online update behavior.
	// +optional
	OnlineUpdate OnlineUpdate `json:"onlineUpdate,omitempty"`
}

// Configuration groups domain-home-source-specific settings.
type Configuration struct {
	// model configures Model-in-Image sourcing; only meaningful when
	// domainHomeSourceType is FromModel.
	// +optional
	Model ModelConfiguration `json:"model,omitempty"`
}

// DomainSpec defines the desired state of a WebLogic Domain.
type DomainSpec struct {
	// domainHomeSourceType selects where the domain configuration is read from.
	// +kubebuilder:default=Image
	DomainHomeSourceType DomainSourceType `json:"domainHomeSourceType,omitempty"`

	// image is the container image providing the domain home and/or WebLogic install.
	// +kubebuilder:validation:Required
	Image string `json:"image"`

	// imagePullSecrets lists secrets used to pull the domain image.
	// +optional
	ImagePullSecrets []corev1.LocalObjectReference `json:"imagePullSecrets,omitempty"`

	// webLogicCredentialsSecret names the secret holding the admin username/password.
	// +kubebuilder:validation:Required
	WebLogicCredentialsSecret string `json:"webLogicCredentialsSecret"`

	// includeServerOutInPodLog mirrors each server's .out file to its pod's stdout.
	// +optional
	IncludeServerOutInPodLog bool `json:"includeServerOutInPodLog,omitempty"`

	// serverStartPolicy is the domain-wide default policy for every server.
	// +kubebuilder:default=IF_NEEDED
	ServerStartPolicy StartPolicy `json:"serverStartPolicy,omitempty"`

	// restartVersion, when changed, lets make-right run again even after the
	// failure-retry budget is spent; existing pods are not restarted or
	// recreated because of it.
	// +optional
	RestartVersion string `json:"restartVersion,omitempty"`

	// introspectVersion, when changed, lets make-right run again even after
	// the failure-retry budget is spent. An introspector job is run only when
	// no introspector ConfigMap exists; a changed introspectVersion alone does
	// not start one while the ConfigMap is present.
	// +optional
	IntrospectVersion string `json:"introspectVersion,omitempty"`

	// adminServer configures the administration server.
	// +optional
	AdminServer AdminServerSpec `json:"adminServer,omitempty"`

	// clusters lists the WebLogic clusters this domain manages.
	// +optional
	Clusters []ClusterSpec `json:"clusters,omitempty"`

	// managedServers lists per-server overrides outside of cluster membership.
	// +optional
	ManagedServers []ManagedServerSpec `json:"managedServers,omitempty"`

	// shutdown is the domain-wide default shutdown behavior.
	// +optional
	Shutdown *ShutdownOptions `json:"shutdown,omitempty"`

	// configuration groups domain-home-source-specific settings.
	// +optional
	Configuration Configuration `json:"configuration,omitempty"`
}

// ServerHealth captures the last-reported health of a single server.
type ServerHealth struct {
	// overallHealth is a short textual health summary, e.g. "ok" or "failed".
	// +optional
	OverallHealth string `json:"overallHealth,omitempty"`
}

// ServerStatus reports the observed state of a single server.
type ServerStatus struct {
	// serverName identifies the server this status entry describes.
	ServerName string `json:"serverName"`

	// state is the last observed WebLogic running state, e.g. RUNNING, SHUTDOWN.
	// +optional
	State string `json:"state,omitempty"`

	// health is the last observed health report.
	// +optional
	Health *ServerHealth `json:"health,omitempty"`

	// clusterName identifies the owning cluster, empty for standalone servers.
	// +optional
	ClusterName string `json:"clusterName,omitempty"`
}

// ClusterStatus reports the observed state of a single cluster.
type ClusterStatus struct {
	// clusterName identifies the cluster this status entry describes.
	ClusterName string `json:"clusterName"`

	// replicas is the last observed count of this cluster's servers listed
	// under managedServers that have a cached pod, whatever their policy;
	// dynamic-cluster servers are not counted.
	// +optional
	Replicas int32 `json:"replicas,omitempty"`

	// maximumReplicas is the largest replica count this cluster's topology supports.
	// +optional
	MaximumReplicas int32 `json:"maximumReplicas,omitempty"`
}

// DomainStatus defines the observed state of a WebLogic Domain.
type DomainStatus struct {
	// servers reports per-server observed status.
	// +optional
	Servers []ServerStatus `json:"servers,omitempty"`

	// clusters reports per-cluster observed status.
	// +optional
	Clusters []ClusterStatus `json:"clusters,omitempty"`

	// introspectJobFailureCount counts consecutive introspector job failures.
	// +optional
	IntrospectJobFailureCount int32 `json:"introspectJobFailureCount,omitempty"`

	// message carries the last human-readable status or error message.
	// +optional
	Message string `json:"message,omitempty"`

	// conditions follows the standard Kubernetes condition conventions.
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Image",type=string,JSONPath=`.spec.image`

// Domain is the Schema for the domains API. It is read-only to the
// reconciliation engine: the engine never mutates a Domain's spec, only
// its status subresource.
type Domain struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   DomainSpec   `json:"spec,omitempty"`
	Status DomainStatus `json:"status,omitempty"`
}

// DomainUID returns the user-chosen identifier for this domain instance,
// defaulting to the resource name when no override label is present.
func (d *Domain) DomainUID() string {
	if d == nil {
		return ""
	}
	if uid, ok := d.Labels[LabelDomainUID]; ok && uid != "" {
		return uid
	}
	return d.Name
}

// +kubebuilder:object:root=true

// DomainList contains a list of Domain.
type DomainList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Domain `json:"items"`
}
