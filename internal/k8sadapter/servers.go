package k8sadapter

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/intstr"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	weblogicfiber "github.com/thegridman/weblogic-kubernetes-operator/internal/fiber"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

func (a *Adapter) ensurePod(ctx context.Context, namespace, name string, labels map[string]string, spec corev1.PodSpec) error {
	key := types.NamespacedName{Namespace: namespace, Name: name}
	var existing corev1.Pod
	err := a.client.Get(ctx, key, &existing)
	if err == nil {
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("getting pod %s: %w", key, err)
	}
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace, Labels: labels},
		Spec:       spec,
	}
	if err := a.client.Create(ctx, pod); err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("creating pod %s: %w", key, err)
	}
	return nil
}

func (a *Adapter) ensureService(ctx context.Context, namespace, name string, labels map[string]string, svcType corev1.ServiceType) error {
	key := types.NamespacedName{Namespace: namespace, Name: name}
	var existing corev1.Service
	err := a.client.Get(ctx, key, &existing)
	if err == nil {
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("getting service %s: %w", key, err)
	}
	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace, Labels: labels},
		Spec: corev1.ServiceSpec{
			Selector: labels,
			Type:     svcType,
			Ports:    []corev1.ServicePort{{Name: "default", Port: 7001, TargetPort: intstr.FromInt(7001)}},
		},
	}
	if err := a.client.Create(ctx, svc); err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("creating service %s: %w", key, err)
	}
	return nil
}

// EnsureAdminPod implements makeright.Actuator.
func (a *Adapter) EnsureAdminPod(ctx context.Context, info *presence.DomainPresenceInfo) error {
	domain := info.Domain()
	labels := serverLabels(info.DomainUID, "admin-server")
	spec := podSpecFor(domain, "weblogic-server", domain.Spec.AdminServer.ServerPod)
	return a.ensurePod(ctx, info.Namespace, adminPodName(info.DomainUID), mergeLabels(labels, domain.Spec.AdminServer.ServerPod.Labels), spec)
}

// EnsureAdminService implements makeright.Actuator.
func (a *Adapter) EnsureAdminService(ctx context.Context, info *presence.DomainPresenceInfo) error {
	labels := serverLabels(info.DomainUID, "admin-server")
	return a.ensureService(ctx, info.Namespace, adminServiceName(info.DomainUID), labels, corev1.ServiceTypeClusterIP)
}

// EnsureExternalAdminService implements makeright.Actuator.
func (a *Adapter) EnsureExternalAdminService(ctx context.Context, info *presence.DomainPresenceInfo) error {
	labels := serverLabels(info.DomainUID, "admin-server")
	return a.ensureService(ctx, info.Namespace, externalAdminServiceName(info.DomainUID), labels, corev1.ServiceTypeNodePort)
}

// WaitForAdminPodReady polls the admin pod until it reports Ready, then
// resumes f with resume.
func (a *Adapter) WaitForAdminPodReady(ctx context.Context, info *presence.DomainPresenceInfo, f *weblogicfiber.Fiber, resume weblogicfiber.Step) weblogicfiber.NextAction {
	key := types.NamespacedName{Namespace: info.Namespace, Name: adminPodName(info.DomainUID)}
	go a.pollPodReadyThenResume(ctx, key, f, resume)
	return weblogicfiber.Suspend()
}

func (a *Adapter) pollPodReadyThenResume(ctx context.Context, key types.NamespacedName, f *weblogicfiber.Fiber, resume weblogicfiber.Step) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		var pod corev1.Pod
		if err := a.client.Get(ctx, key, &pod); err != nil {
			if apierrors.IsNotFound(err) {
				continue
			}
			a.logger.Error(err, "polling admin pod readiness", "pod", key)
			continue
		}
		for _, cond := range pod.Status.Conditions {
			if cond.Type == corev1.PodReady && cond.Status == corev1.ConditionTrue {
				f.Resume(resume)
				return
			}
		}
	}
}

// EnsureManagedServerPod implements makeright.Actuator.
func (a *Adapter) EnsureManagedServerPod(ctx context.Context, info *presence.DomainPresenceInfo, serverName string) error {
	domain := info.Domain()
	override := managedServerOverride(domain, serverName)
	labels := mergeLabels(serverLabels(info.DomainUID, serverName), override.Labels)
	spec := podSpecFor(domain, "weblogic-server", override)
	return a.ensurePod(ctx, info.Namespace, managedServerPodName(info.DomainUID, serverName), labels, spec)
}

// EnsureManagedServerService implements makeright.Actuator.
func (a *Adapter) EnsureManagedServerService(ctx context.Context, info *presence.DomainPresenceInfo, serverName string) error {
	labels := serverLabels(info.DomainUID, serverName)
	return a.ensureService(ctx, info.Namespace, managedServerServiceName(info.DomainUID, serverName), labels, corev1.ServiceTypeClusterIP)
}

// DeleteManagedServerPod implements makeright.Actuator.
func (a *Adapter) DeleteManagedServerPod(ctx context.Context, info *presence.DomainPresenceInfo, serverName string) error {
	pod := &corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: managedServerPodName(info.DomainUID, serverName), Namespace: info.Namespace}}
	if err := a.client.Delete(ctx, pod); err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("deleting managed server pod %s/%s: %w", info.Namespace, pod.Name, err)
	}
	svc := &corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: managedServerServiceName(info.DomainUID, serverName), Namespace: info.Namespace}}
	if err := a.client.Delete(ctx, svc); err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("deleting managed server service %s/%s: %w", info.Namespace, svc.Name, err)
	}
	return nil
}

func managedServerOverride(domain *weblogicv1alpha1.Domain, serverName string) weblogicv1alpha1.ServerPod {
	for _, ms := range domain.Spec.ManagedServers {
		if ms.ServerName == serverName {
			return ms.ServerPod
		}
	}
	return weblogicv1alpha1.ServerPod{}
}
