//go:build !ignore_autogenerated

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

// Code generated by hand to mirror controller-gen's deepcopy-gen output.

package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	runtime "k8s.io/apimachinery/pkg/runtime"
)

func (in *ServerPod) DeepCopyInto(out *ServerPod) {
	*out = *in
	if in.Env != nil {
		out.Env = make([]corev1.EnvVar, len(in.Env))
		for i := range in.Env {
			in.Env[i].DeepCopyInto(&out.Env[i])
		}
	}
	in.Resources.DeepCopyInto(&out.Resources)
	if in.Labels != nil {
		out.Labels = make(map[string]string, len(in.Labels))
		for k, v := range in.Labels {
			out.Labels[k] = v
		}
	}
	if in.Annotations != nil {
		out.Annotations = make(map[string]string, len(in.Annotations))
		for k, v := range in.Annotations {
			out.Annotations[k] = v
		}
	}
}

func (in *ServerPod) DeepCopy() *ServerPod {
	if in == nil {
		return nil
	}
	out := new(ServerPod)
	in.DeepCopyInto(out)
	return out
}

func (in *ShutdownOptions) DeepCopyInto(out *ShutdownOptions) { *out = *in }

func (in *ShutdownOptions) DeepCopy() *ShutdownOptions {
	if in == nil {
		return nil
	}
	out := new(ShutdownOptions)
	in.DeepCopyInto(out)
	return out
}

func (in *AdminChannel) DeepCopyInto(out *AdminChannel) { *out = *in }

func (in *AdminService) DeepCopyInto(out *AdminService) {
	*out = *in
	if in.Channels != nil {
		out.Channels = make([]AdminChannel, len(in.Channels))
		copy(out.Channels, in.Channels)
	}
}

func (in *AdminService) DeepCopy() *AdminService {
	if in == nil {
		return nil
	}
	out := new(AdminService)
	in.DeepCopyInto(out)
	return out
}

func (in *AdminServerSpec) DeepCopyInto(out *AdminServerSpec) {
	*out = *in
	in.ServerPod.DeepCopyInto(&out.ServerPod)
	if in.AdminService != nil {
		out.AdminService = in.AdminService.DeepCopy()
	}
}

func (in *AdminServerSpec) DeepCopy() *AdminServerSpec {
	if in == nil {
		return nil
	}
	out := new(AdminServerSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *ClusterSpec) DeepCopyInto(out *ClusterSpec) {
	*out = *in
	if in.Replicas != nil {
		out.Replicas = new(int32)
		*out.Replicas = *in.Replicas
	}
	in.ServerPod.DeepCopyInto(&out.ServerPod)
	if in.Shutdown != nil {
		out.Shutdown = in.Shutdown.DeepCopy()
	}
}

func (in *ClusterSpec) DeepCopy() *ClusterSpec {
	if in == nil {
		return nil
	}
	out := new(ClusterSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *ManagedServerSpec) DeepCopyInto(out *ManagedServerSpec) {
	*out = *in
	in.ServerPod.DeepCopyInto(&out.ServerPod)
	if in.Shutdown != nil {
		out.Shutdown = in.Shutdown.DeepCopy()
	}
}

func (in *ManagedServerSpec) DeepCopy() *ManagedServerSpec {
	if in == nil {
		return nil
	}
	out := new(ManagedServerSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *OnlineUpdate) DeepCopyInto(out *OnlineUpdate) { *out = *in }

func (in *ModelConfiguration) DeepCopyInto(out *ModelConfiguration) {
	*out = *in
	out.OnlineUpdate = in.OnlineUpdate
}

func (in *Configuration) DeepCopyInto(out *Configuration) {
	*out = *in
	in.Model.DeepCopyInto(&out.Model)
}

func (in *DomainSpec) DeepCopyInto(out *DomainSpec) {
	*out = *in
	if in.ImagePullSecrets != nil {
		out.ImagePullSecrets = make([]corev1.LocalObjectReference, len(in.ImagePullSecrets))
		copy(out.ImagePullSecrets, in.ImagePullSecrets)
	}
	in.AdminServer.DeepCopyInto(&out.AdminServer)
	if in.Clusters != nil {
		out.Clusters = make([]ClusterSpec, len(in.Clusters))
		for i := range in.Clusters {
			in.Clusters[i].DeepCopyInto(&out.Clusters[i])
		}
	}
	if in.ManagedServers != nil {
		out.ManagedServers = make([]ManagedServerSpec, len(in.ManagedServers))
		for i := range in.ManagedServers {
			in.ManagedServers[i].DeepCopyInto(&out.ManagedServers[i])
		}
	}
	if in.Shutdown != nil {
		out.Shutdown = in.Shutdown.DeepCopy()
	}
	in.Configuration.DeepCopyInto(&out.Configuration)
}

func (in *DomainSpec) DeepCopy() *DomainSpec {
	if in == nil {
		return nil
	}
	out := new(DomainSpec)
	in.DeepCopyInto(out)
	return out
}

func (in *ServerHealth) DeepCopyInto(out *ServerHealth) { *out = *in }

func (in *ServerStatus) DeepCopyInto(out *ServerStatus) {
	*out = *in
	if in.Health != nil {
		out.Health = new(ServerHealth)
		*out.Health = *in.Health
	}
}

func (in *ClusterStatus) DeepCopyInto(out *ClusterStatus) { *out = *in }

func (in *DomainStatus) DeepCopyInto(out *DomainStatus) {
	*out = *in
	if in.Servers != nil {
		out.Servers = make([]ServerStatus, len(in.Servers))
		for i := range in.Servers {
			in.Servers[i].DeepCopyInto(&out.Servers[i])
		}
	}
	if in.Clusters != nil {
		out.Clusters = make([]ClusterStatus, len(in.Clusters))
		copy(out.Clusters, in.Clusters)
	}
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
}

func (in *DomainStatus) DeepCopy() *DomainStatus {
	if in == nil {
		return nil
	}
	out := new(DomainStatus)
	in.DeepCopyInto(out)
	return out
}

func (in *Domain) DeepCopyInto(out *Domain) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

func (in *Domain) DeepCopy() *Domain {
	if in == nil {
		return nil
	}
	out := new(Domain)
	in.DeepCopyInto(out)
	return out
}

func (in *Domain) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

func (in *DomainList) DeepCopyInto(out *DomainList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]Domain, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

func (in *DomainList) DeepCopy() *DomainList {
	if in == nil {
		return nil
	}
	out := new(DomainList)
	in.DeepCopyInto(out)
	return out
}

func (in *DomainList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}
