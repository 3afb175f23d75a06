package watch_test

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/go-logr/logr/testr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/testutil"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/watch"
)

var _ = Describe("Dispatcher", func() {
	var (
		cache    *presence.Cache
		trigger  *testutil.FakeTrigger
		reporter *testutil.FakeFailureReporter
		cmRecr   *testutil.FakeScriptConfigMapRecreator
		factory  *testutil.TestDataFactory
		d        *watch.Dispatcher
		ctx      context.Context
	)

	BeforeEach(func() {
		cache = presence.NewCache()
		trigger = testutil.NewFakeTrigger()
		reporter = testutil.NewFakeFailureReporter()
		cmRecr = testutil.NewFakeScriptConfigMapRecreator()
		factory = testutil.NewTestDataFactory()
		d = watch.NewDispatcher(cache, trigger, reporter, cmRecr, nil, testr.New(GinkgoT()))
		ctx = context.Background()
	})

	Describe("Domain events", func() {
		It("interrupts and triggers make-right on DomainAdded", func() {
			domain := factory.CreateStandardDomain()
			d.DomainAdded(ctx, domain)

			Expect(trigger.Len()).To(Equal(1))
			last := trigger.Last()
			Expect(last.Opts.Interrupt).To(BeTrue())
			Expect(last.Opts.ForDeletion).To(BeFalse())
		})

		It("treats an unchanged generation as a metadata-only update and skips make-right", func() {
			domain := factory.CreateStandardDomain()
			domain.Generation = 3
			info := cache.GetOrCreate(domain.Namespace, domain.DomainUID())
			info.SetDomain(domain)

			echo := domain.DeepCopy()
			echo.ResourceVersion = "2"
			d.DomainModified(ctx, echo)

			Expect(trigger.Len()).To(Equal(0))
			Expect(info.Domain()).To(BeIdenticalTo(echo))
		})

		It("triggers make-right without interrupt when the generation changed", func() {
			domain := factory.CreateStandardDomain()
			domain.Generation = 1
			info := cache.GetOrCreate(domain.Namespace, domain.DomainUID())
			info.SetDomain(domain)

			changed := domain.DeepCopy()
			changed.Generation = 2
			d.DomainModified(ctx, changed)

			Expect(trigger.Len()).To(Equal(1))
			Expect(trigger.Last().Opts.Interrupt).To(BeFalse())
		})

		It("runs the down-plan with interrupt, forDeletion, and explicitRecheck on DomainDeleted", func() {
			domain := factory.CreateStandardDomain()
			d.DomainDeleted(ctx, domain)

			Expect(trigger.Len()).To(Equal(1))
			last := trigger.Last()
			Expect(last.Opts.Interrupt).To(BeTrue())
			Expect(last.Opts.ForDeletion).To(BeTrue())
			Expect(last.Opts.ExplicitRecheck).To(BeTrue())
		})
	})

	Describe("ServerPod events", func() {
		It("caches an added pod and clears its being-deleted marker", func() {
			pod := factory.CreateServerPod("ns1", "dom1", "server1")
			info := cache.GetOrCreate("ns1", "dom1")
			info.SetBeingDeleted("server1", true)

			d.ServerPodAddedOrModified(ctx, pod)

			got, ok := info.ServerPod("server1")
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(pod))
			Expect(info.BeingDeleted("server1")).To(BeFalse())
		})

		It("triggers an interrupted recheck on an unexpected pod delete", func() {
			pod := factory.CreateServerPod("ns1", "dom1", "server1")
			info := cache.GetOrCreate("ns1", "dom1")
			info.SetServerPod("server1", pod)

			d.ServerPodDeleted(ctx, pod)

			Expect(trigger.Len()).To(Equal(1))
			Expect(trigger.Last().Opts.Interrupt).To(BeTrue())
			Expect(trigger.Last().Opts.ExplicitRecheck).To(BeTrue())
			_, ok := info.ServerPod("server1")
			Expect(ok).To(BeFalse())
		})

		It("suppresses make-right for an intentional delete already marked being-deleted", func() {
			pod := factory.CreateServerPod("ns1", "dom1", "server1")
			info := cache.GetOrCreate("ns1", "dom1")
			info.SetServerPod("server1", pod)
			info.SetBeingDeleted("server1", true)

			d.ServerPodDeleted(ctx, pod)

			Expect(trigger.Len()).To(Equal(0))
		})

		It("suppresses make-right while the domain is already tearing down", func() {
			pod := factory.CreateServerPod("ns1", "dom1", "server1")
			info := cache.GetOrCreate("ns1", "dom1")
			info.SetServerPod("server1", pod)
			info.SetDeleting(true)

			d.ServerPodDeleted(ctx, pod)

			Expect(trigger.Len()).To(Equal(0))
		})

		It("ignores a modified event carrying a resourceVersion no newer than the cached pod", func() {
			pod := factory.CreateServerPod("ns1", "dom1", "server1")
			pod.ResourceVersion = "5"
			info := cache.GetOrCreate("ns1", "dom1")
			info.SetServerPod("server1", pod)

			stale := pod.DeepCopy()
			stale.ResourceVersion = "5"
			stale.Status.Phase = corev1.PodFailed

			d.ServerPodAddedOrModified(ctx, stale)

			got, ok := info.ServerPod("server1")
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(pod))
		})

		It("ignores a ServerPodDeleted event whose UID no longer matches the cached pod", func() {
			original := factory.CreateServerPod("ns1", "dom1", "server1")
			original.UID = types.UID("current-uid")
			info := cache.GetOrCreate("ns1", "dom1")
			info.SetServerPod("server1", original)

			replaced := original.DeepCopy()
			replaced.UID = types.UID("stale-uid")

			d.ServerPodDeleted(ctx, replaced)

			got, ok := info.ServerPod("server1")
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(original))
			Expect(trigger.Len()).To(Equal(0))
		})
	})

	Describe("IntrospectorJobPod", func() {
		It("reports a failure for a pod carrying a waiting-container message", func() {
			pod := factory.CreateIntrospectorPod("ns1", "dom1", "image pull failed")
			d.IntrospectorJobPod(ctx, pod)

			Expect(reporter.IntrospectorFailures).To(HaveLen(1))
			Expect(reporter.IntrospectorFailures[0]).To(ContainSubstring("image pull failed"))
		})

		It("reports progressing for a waiting container with no message while otherwise healthy", func() {
			pod := factory.CreateIntrospectorPod("ns1", "dom1", "")
			pod.Status.Phase = corev1.PodPending
			d.IntrospectorJobPod(ctx, pod)

			Expect(reporter.ProgressingReports).To(Equal(1))
			Expect(reporter.IntrospectorFailures).To(BeEmpty())
		})
	})

	Describe("Service events", func() {
		It("caches an added service", func() {
			svc := factory.CreateServerService("ns1", "dom1", "server1")
			d.ServiceAddedOrModified(ctx, svc)

			info, ok := cache.Get("ns1", "dom1")
			Expect(ok).To(BeTrue())
			got, ok := info.Service(svc.Name)
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(svc))
		})

		It("triggers an interrupted recheck on an unexpected service delete", func() {
			svc := factory.CreateServerService("ns1", "dom1", "server1")
			info := cache.GetOrCreate("ns1", "dom1")
			info.SetService(svc.Name, svc)

			d.ServiceDeleted(ctx, svc)

			Expect(trigger.Len()).To(Equal(1))
		})

		It("ignores a modified event carrying a resourceVersion no newer than the cached service", func() {
			svc := factory.CreateServerService("ns1", "dom1", "server1")
			svc.ResourceVersion = "7"
			info := cache.GetOrCreate("ns1", "dom1")
			info.SetService(svc.Name, svc)

			stale := svc.DeepCopy()
			stale.ResourceVersion = "6"

			d.ServiceAddedOrModified(ctx, stale)

			got, ok := info.Service(svc.Name)
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(svc))
		})

		It("ignores a ServiceDeleted event whose UID no longer matches the cached service", func() {
			original := factory.CreateServerService("ns1", "dom1", "server1")
			original.UID = types.UID("current-uid")
			info := cache.GetOrCreate("ns1", "dom1")
			info.SetService(original.Name, original)

			replaced := original.DeepCopy()
			replaced.UID = types.UID("stale-uid")

			d.ServiceDeleted(ctx, replaced)

			got, ok := info.Service(original.Name)
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(original))
			Expect(trigger.Len()).To(Equal(0))
		})
	})

	Describe("ConfigMap events", func() {
		It("recreates the script configmap when it is this domain's", func() {
			cm := factory.CreateScriptConfigMap("ns1", "dom1")
			d.ConfigMapDeleted(ctx, cm)

			Expect(cmRecr.Calls).To(Equal(1))
		})

		It("ignores a configmap that is not the script configmap", func() {
			cm := factory.CreateScriptConfigMap("ns1", "dom1")
			cm.Name = "some-other-cm"
			d.ConfigMapModified(ctx, cm)

			Expect(cmRecr.Calls).To(Equal(0))
		})
	})

	Describe("EventAdded", func() {
		It("records a readiness state parsed from the event message", func() {
			cache.GetOrCreate("ns1", "dom1")
			event := factory.CreateReadinessEvent("ns1", "dom1", "server1", "Readiness probe succeeded")

			d.EventAdded(ctx, event)

			info, _ := cache.Get("ns1", "dom1")
			state, ok := info.LastKnownServerStatus("server1")
			Expect(ok).To(BeTrue())
			Expect(state).To(Equal("succeeded"))
		})

		It("ignores a message that does not match the readiness probe contract", func() {
			cache.GetOrCreate("ns1", "dom1")
			event := factory.CreateReadinessEvent("ns1", "dom1", "server1", "unrelated message")

			d.EventAdded(ctx, event)

			info, _ := cache.Get("ns1", "dom1")
			_, ok := info.LastKnownServerStatus("server1")
			Expect(ok).To(BeFalse())
		})
	})
})
