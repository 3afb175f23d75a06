// Package presence implements the in-memory Domain Presence Cache: the
// process-wide view of every domain the operator manages. It is read by
// planners and written by watch handlers and by steps that mutate
// Kubernetes.
package presence

import (
	"sync"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
)

// DomainPresenceInfo is the in-memory record for one live domain: the last
// observed Domain spec, its server pods and services, deletion flag,
// failure counter, and last known per-server readiness status. There is at
// most one DomainPresenceInfo per (namespace, domainUid).
type DomainPresenceInfo struct {
	Namespace string
	DomainUID string

	mu                     sync.RWMutex
	domain                 *weblogicv1alpha1.Domain
	serverPods             map[string]*corev1.Pod
	services               map[string]*corev1.Service
	deleting               bool
	populated              bool
	failureCount           int
	lastKnownServerStatus  map[string]string
	beingDeleted           map[string]bool
}

// New creates a DomainPresenceInfo for (namespace, domainUID) with empty maps.
func New(namespace, domainUID string) *DomainPresenceInfo {
	return &DomainPresenceInfo{
		Namespace:             namespace,
		DomainUID:             domainUID,
		serverPods:            make(map[string]*corev1.Pod),
		services:              make(map[string]*corev1.Service),
		lastKnownServerStatus: make(map[string]string),
		beingDeleted:          make(map[string]bool),
	}
}

// Domain returns the last observed Domain object, or nil if none has been
// seen yet.
func (i *DomainPresenceInfo) Domain() *weblogicv1alpha1.Domain {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.domain
}

// SetDomain replaces the last observed Domain object.
func (i *DomainPresenceInfo) SetDomain(d *weblogicv1alpha1.Domain) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.domain = d
}

// Deleting reports whether a down-plan is currently active for this domain.
// While true, no up-plan may start.
func (i *DomainPresenceInfo) Deleting() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.deleting
}

// SetDeleting sets the deleting flag.
func (i *DomainPresenceInfo) SetDeleting(v bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.deleting = v
}

// Populated reports whether the initial LIST has seeded the pod/service
// maps. When false, the next make-right must seed the maps from a LIST
// before issuing any CREATE/DELETE.
func (i *DomainPresenceInfo) Populated() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.populated
}

// SetPopulated sets the populated flag.
func (i *DomainPresenceInfo) SetPopulated(v bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.populated = v
}

// FailureCount returns the number of make-right exceptions observed since
// the last successful up-plan.
func (i *DomainPresenceInfo) FailureCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.failureCount
}

// IncrementFailureCount increments and returns the new failure count.
func (i *DomainPresenceInfo) IncrementFailureCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.failureCount++
	return i.failureCount
}

// ResetFailureCount zeroes the failure count, called when an up-plan completes successfully.
func (i *DomainPresenceInfo) ResetFailureCount() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.failureCount = 0
}

// ServerPod returns the last observed pod for serverName, if any.
func (i *DomainPresenceInfo) ServerPod(serverName string) (*corev1.Pod, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	p, ok := i.serverPods[serverName]
	return p, ok
}

// SetServerPod records the last observed pod for serverName.
func (i *DomainPresenceInfo) SetServerPod(serverName string, pod *corev1.Pod) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.serverPods[serverName] = pod
}

// DeleteServerPod removes the cached pod for serverName, but only if its UID
// matches deletedUID: per spec §4.3, a DELETE event only drops the cached
// object when the removed UID matches the one the cache holds, so a
// stale/reordered DELETE for an already-replaced pod is ignored.
func (i *DomainPresenceInfo) DeleteServerPod(serverName string, deletedUID types.UID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	cached, ok := i.serverPods[serverName]
	if !ok || cached.UID != deletedUID {
		return
	}
	delete(i.serverPods, serverName)
}

// ServerPods returns a snapshot copy of the serverName -> Pod map.
func (i *DomainPresenceInfo) ServerPods() map[string]*corev1.Pod {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make(map[string]*corev1.Pod, len(i.serverPods))
	for k, v := range i.serverPods {
		out[k] = v
	}
	return out
}

// Service returns the last observed service for serviceName, if any.
func (i *DomainPresenceInfo) Service(serviceName string) (*corev1.Service, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	s, ok := i.services[serviceName]
	return s, ok
}

// SetService records the last observed service for serviceName.
func (i *DomainPresenceInfo) SetService(serviceName string, svc *corev1.Service) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.services[serviceName] = svc
}

// DeleteService removes the cached service for serviceName, but only if its
// UID matches deletedUID; see DeleteServerPod for why.
func (i *DomainPresenceInfo) DeleteService(serviceName string, deletedUID types.UID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	cached, ok := i.services[serviceName]
	if !ok || cached.UID != deletedUID {
		return
	}
	delete(i.services, serviceName)
}

// Services returns a snapshot copy of the serviceName -> Service map.
func (i *DomainPresenceInfo) Services() map[string]*corev1.Service {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make(map[string]*corev1.Service, len(i.services))
	for k, v := range i.services {
		out[k] = v
	}
	return out
}

// LastKnownServerStatus returns the last readiness status text for serverName.
func (i *DomainPresenceInfo) LastKnownServerStatus(serverName string) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	s, ok := i.lastKnownServerStatus[serverName]
	return s, ok
}

// SetLastKnownServerStatus records a readiness status text for serverName,
// parsed by the watch dispatcher from a readiness Event.
func (i *DomainPresenceInfo) SetLastKnownServerStatus(serverName, status string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.lastKnownServerStatus[serverName] = status
}

// BeingDeleted reports whether serverName has an in-flight delete marker set.
func (i *DomainPresenceInfo) BeingDeleted(serverName string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.beingDeleted[serverName]
}

// SetBeingDeleted sets or clears the in-flight delete marker for serverName.
func (i *DomainPresenceInfo) SetBeingDeleted(serverName string, v bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if v {
		i.beingDeleted[serverName] = true
	} else {
		delete(i.beingDeleted, serverName)
	}
}
