package k8sadapter

import (
	"context"
	"fmt"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	weblogicfiber "github.com/thegridman/weblogic-kubernetes-operator/internal/fiber"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

// ReadIntrospectorConfigMap implements makeright.Actuator.
func (a *Adapter) ReadIntrospectorConfigMap(ctx context.Context, info *presence.DomainPresenceInfo) (map[string]string, bool, error) {
	var cm corev1.ConfigMap
	key := types.NamespacedName{Namespace: info.Namespace, Name: introspectorConfigMapName(info.DomainUID)}
	if err := a.client.Get(ctx, key, &cm); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading introspector configmap %s: %w", key, err)
	}
	return cm.Data, true, nil
}

// EnsureIntrospectorJob deletes a stale job for a prior introspectVersion,
// if present, and creates a fresh one. A job that already exists for the
// current introspectVersion is kept as it is.
func (a *Adapter) EnsureIntrospectorJob(ctx context.Context, info *presence.DomainPresenceInfo) error {
	domain := info.Domain()
	name := introspectorJobName(info.DomainUID)
	key := types.NamespacedName{Namespace: info.Namespace, Name: name}

	var existing batchv1.Job
	err := a.client.Get(ctx, key, &existing)
	switch {
	case err == nil:
		if existing.Labels["weblogic.introspectVersion"] == domain.Spec.IntrospectVersion {
			return nil
		}
		if delErr := a.client.Delete(ctx, &existing, client.PropagationPolicy(metav1.DeletePropagationForeground)); delErr != nil && !apierrors.IsNotFound(delErr) {
			return fmt.Errorf("deleting stale introspector job %s: %w", key, delErr)
		}
	case !apierrors.IsNotFound(err):
		return fmt.Errorf("getting introspector job %s: %w", key, err)
	}

	labels := baseLabels(info.DomainUID)
	labels[weblogicv1alpha1.LabelJobName] = name
	labels["weblogic.introspectVersion"] = domain.Spec.IntrospectVersion

	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: info.Namespace, Labels: labels},
		Spec: batchv1.JobSpec{
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: func() corev1.PodSpec {
					spec := podSpecFor(domain, "introspector", weblogicv1alpha1.ServerPod{})
					spec.RestartPolicy = corev1.RestartPolicyNever
					return spec
				}(),
			},
		},
	}
	if err := a.client.Create(ctx, job); err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("creating introspector job %s: %w", key, err)
	}
	return nil
}

// WaitForIntrospectorJob polls the job until it completes or fails, then
// resumes f with resume. It always returns Suspend(): the actual Continue
// happens on the Fiber's own goroutine once Resume delivers.
func (a *Adapter) WaitForIntrospectorJob(ctx context.Context, info *presence.DomainPresenceInfo, f *weblogicfiber.Fiber, resume weblogicfiber.Step) weblogicfiber.NextAction {
	key := types.NamespacedName{Namespace: info.Namespace, Name: introspectorJobName(info.DomainUID)}
	go a.pollJobThenResume(ctx, key, f, resume)
	return weblogicfiber.Suspend()
}

func (a *Adapter) pollJobThenResume(ctx context.Context, key types.NamespacedName, f *weblogicfiber.Fiber, resume weblogicfiber.Step) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		var job batchv1.Job
		if err := a.client.Get(ctx, key, &job); err != nil {
			if apierrors.IsNotFound(err) {
				continue
			}
			a.logger.Error(err, "polling introspector job", "job", key)
			continue
		}
		if job.Status.Succeeded > 0 {
			f.Resume(resume)
			return
		}
		if job.Status.Failed > 0 {
			f.Resume(resume)
			return
		}
	}
}
