package makeright

import (
	"context"

	corev1 "k8s.io/api/core/v1"

	weblogicfiber "github.com/thegridman/weblogic-kubernetes-operator/internal/fiber"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

// Actuator is the uniform interface through which every step in a plan
// mutates Kubernetes. Its concrete bodies — the "apply pod spec" steps,
// image/WDT/WLST tooling, and the Kubernetes client itself — are external
// collaborators out of this engine's scope; the engine only depends on
// this interface, so it can be driven in tests by a fake implementation.
type Actuator interface {
	// ReadIntrospectorConfigMap reads the introspector ConfigMap for info's
	// domain, if any, returning ok=false when it does not exist.
	ReadIntrospectorConfigMap(ctx context.Context, info *presence.DomainPresenceInfo) (data map[string]string, ok bool, err error)

	// ListDomainResources lists every pod/service owned by info's domain,
	// used to seed the cache when Populated()==false.
	ListDomainResources(ctx context.Context, namespace, domainUID string) (pods []corev1.Pod, services []corev1.Service, err error)

	// EnsureIntrospectorJob deletes any stale introspector job and creates a
	// fresh one, returning once it is created; WaitForIntrospectorJob then
	// suspends the fiber until the job finishes.
	EnsureIntrospectorJob(ctx context.Context, info *presence.DomainPresenceInfo) error
	WaitForIntrospectorJob(ctx context.Context, info *presence.DomainPresenceInfo, f *weblogicfiber.Fiber, resume weblogicfiber.Step) weblogicfiber.NextAction

	// EnsureAdminPod and EnsureAdminService create the object when it is
	// absent; an existing object is left unchanged and is not compared
	// against or patched to the spec the engine computes.
	EnsureAdminPod(ctx context.Context, info *presence.DomainPresenceInfo) error
	EnsureAdminService(ctx context.Context, info *presence.DomainPresenceInfo) error
	EnsureExternalAdminService(ctx context.Context, info *presence.DomainPresenceInfo) error
	WaitForAdminPodReady(ctx context.Context, info *presence.DomainPresenceInfo, f *weblogicfiber.Fiber, resume weblogicfiber.Step) weblogicfiber.NextAction

	EnsureManagedServerPod(ctx context.Context, info *presence.DomainPresenceInfo, serverName string) error
	EnsureManagedServerService(ctx context.Context, info *presence.DomainPresenceInfo, serverName string) error
	DeleteManagedServerPod(ctx context.Context, info *presence.DomainPresenceInfo, serverName string) error

	// DeleteAllDomainResources removes every pod/service/configmap/job owned
	// by info's domain, used by the down-plan.
	DeleteAllDomainResources(ctx context.Context, info *presence.DomainPresenceInfo) error
}
