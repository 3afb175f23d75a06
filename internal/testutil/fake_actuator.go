package testutil

import (
	"context"
	"sync"

	corev1 "k8s.io/api/core/v1"

	weblogicfiber "github.com/thegridman/weblogic-kubernetes-operator/internal/fiber"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

// FakeActuator is an in-memory implementation of makeright.Actuator: every
// Ensure call records the call and succeeds immediately; WaitFor calls
// resume synchronously rather than suspending, unless configured to suspend
// via WaitForIntrospectorSuspends/WaitForAdminPodSuspends. It is safe for
// concurrent use by the fibers under test.
type FakeActuator struct {
	mu sync.Mutex

	IntrospectorData map[string]string
	IntrospectorOK   bool
	ListPods         []corev1.Pod
	ListServices     []corev1.Service

	// Errors, keyed by method name, returned instead of succeeding.
	Errors map[string]error

	// WaitForIntrospectorSuspends, when true, makes WaitForIntrospectorJob
	// return Suspend() without resuming, leaving the fiber it was given
	// parked.
	WaitForIntrospectorSuspends bool
	WaitForAdminPodSuspends     bool

	Calls []string
}

// NewFakeActuator builds a FakeActuator with its maps initialized.
func NewFakeActuator() *FakeActuator {
	return &FakeActuator{
		IntrospectorData: map[string]string{},
		Errors:           map[string]error{},
	}
}

func (a *FakeActuator) record(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls = append(a.Calls, name)
}

func (a *FakeActuator) errFor(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Errors[name]
}

func (a *FakeActuator) ReadIntrospectorConfigMap(ctx context.Context, info *presence.DomainPresenceInfo) (map[string]string, bool, error) {
	a.record("ReadIntrospectorConfigMap")
	return a.IntrospectorData, a.IntrospectorOK, a.errFor("ReadIntrospectorConfigMap")
}

func (a *FakeActuator) ListDomainResources(ctx context.Context, namespace, domainUID string) ([]corev1.Pod, []corev1.Service, error) {
	a.record("ListDomainResources")
	return a.ListPods, a.ListServices, a.errFor("ListDomainResources")
}

func (a *FakeActuator) EnsureIntrospectorJob(ctx context.Context, info *presence.DomainPresenceInfo) error {
	a.record("EnsureIntrospectorJob")
	return a.errFor("EnsureIntrospectorJob")
}

func (a *FakeActuator) WaitForIntrospectorJob(ctx context.Context, info *presence.DomainPresenceInfo, f *weblogicfiber.Fiber, resume weblogicfiber.Step) weblogicfiber.NextAction {
	a.record("WaitForIntrospectorJob")
	if a.WaitForIntrospectorSuspends {
		return weblogicfiber.Suspend()
	}
	return weblogicfiber.Continue(resume)
}

func (a *FakeActuator) EnsureAdminPod(ctx context.Context, info *presence.DomainPresenceInfo) error {
	a.record("EnsureAdminPod")
	return a.errFor("EnsureAdminPod")
}

func (a *FakeActuator) EnsureAdminService(ctx context.Context, info *presence.DomainPresenceInfo) error {
	a.record("EnsureAdminService")
	return a.errFor("EnsureAdminService")
}

func (a *FakeActuator) EnsureExternalAdminService(ctx context.Context, info *presence.DomainPresenceInfo) error {
	a.record("EnsureExternalAdminService")
	return a.errFor("EnsureExternalAdminService")
}

func (a *FakeActuator) WaitForAdminPodReady(ctx context.Context, info *presence.DomainPresenceInfo, f *weblogicfiber.Fiber, resume weblogicfiber.Step) weblogicfiber.NextAction {
	a.record("WaitForAdminPodReady")
	if a.WaitForAdminPodSuspends {
		return weblogicfiber.Suspend()
	}
	return weblogicfiber.Continue(resume)
}

func (a *FakeActuator) EnsureManagedServerPod(ctx context.Context, info *presence.DomainPresenceInfo, serverName string) error {
	a.record("EnsureManagedServerPod:" + serverName)
	return a.errFor("EnsureManagedServerPod")
}

func (a *FakeActuator) EnsureManagedServerService(ctx context.Context, info *presence.DomainPresenceInfo, serverName string) error {
	a.record("EnsureManagedServerService:" + serverName)
	return a.errFor("EnsureManagedServerService")
}

func (a *FakeActuator) DeleteManagedServerPod(ctx context.Context, info *presence.DomainPresenceInfo, serverName string) error {
	a.record("DeleteManagedServerPod:" + serverName)
	return a.errFor("DeleteManagedServerPod")
}

func (a *FakeActuator) DeleteAllDomainResources(ctx context.Context, info *presence.DomainPresenceInfo) error {
	a.record("DeleteAllDomainResources")
	return a.errFor("DeleteAllDomainResources")
}

// CallCount returns how many times method was called.
func (a *FakeActuator) CallCount(method string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.Calls {
		if c == method {
			n++
		}
	}
	return n
}
