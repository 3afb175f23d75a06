package k8sadapter

import (
	"context"
	"fmt"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

// ListDomainResources implements makeright.Actuator.
func (a *Adapter) ListDomainResources(ctx context.Context, namespace, domainUID string) ([]corev1.Pod, []corev1.Service, error) {
	var pods corev1.PodList
	if err := a.client.List(ctx, &pods, client.InNamespace(namespace), ownerLabelSelector(domainUID)); err != nil {
		return nil, nil, fmt.Errorf("listing pods for domain %s: %w", domainUID, err)
	}
	var services corev1.ServiceList
	if err := a.client.List(ctx, &services, client.InNamespace(namespace), ownerLabelSelector(domainUID)); err != nil {
		return nil, nil, fmt.Errorf("listing services for domain %s: %w", domainUID, err)
	}
	return pods.Items, services.Items, nil
}

// DeleteAllDomainResources implements makeright.Actuator: it removes every
// pod, service, configmap, and job the operator labeled with this
// domain's weblogic.domainUID.
func (a *Adapter) DeleteAllDomainResources(ctx context.Context, info *presence.DomainPresenceInfo) error {
	selector := ownerLabelSelector(info.DomainUID)
	ns := client.InNamespace(info.Namespace)

	if err := a.client.DeleteAllOf(ctx, &corev1.Pod{}, ns, selector); err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("deleting pods for domain %s: %w", info.DomainUID, err)
	}
	if err := a.client.DeleteAllOf(ctx, &corev1.Service{}, ns, selector); err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("deleting services for domain %s: %w", info.DomainUID, err)
	}
	if err := a.client.DeleteAllOf(ctx, &corev1.ConfigMap{}, ns, selector); err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("deleting configmaps for domain %s: %w", info.DomainUID, err)
	}
	if err := a.client.DeleteAllOf(ctx, &batchv1.Job{}, ns, selector, client.PropagationPolicy(metav1.DeletePropagationBackground)); err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("deleting jobs for domain %s: %w", info.DomainUID, err)
	}
	return nil
}
