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

// Package v1alpha1 contains the Domain custom resource API, the only
// external collaborator the reconciliation engine reads directly.
package v1alpha1

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/scheme"
)

// GroupName is the API group served for Domain resources, matching the
// DOMAIN_API_VERSION convention referenced in the engine's external
// interfaces.
const GroupName = "weblogic.oracle"

// GroupVersion is the API group/version used for every type in this package.
var GroupVersion = schema.GroupVersion{Group: GroupName, Version: "v9"}

// SchemeBuilder is used to add go types to the GroupVersionKind scheme.
var SchemeBuilder = &scheme.Builder{GroupVersion: GroupVersion}

// AddToScheme adds the types in this group-version to the given scheme.
var AddToScheme = SchemeBuilder.AddToScheme

func init() {
	SchemeBuilder.Register(&Domain{}, &DomainList{})
}
