package controller_test

import (
	"context"

	"github.com/go-logr/logr/testr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/controller"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/testutil"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/watch"
)

func newScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	_ = clientgoscheme.AddToScheme(scheme)
	_ = weblogicv1alpha1.AddToScheme(scheme)
	return scheme
}

var _ = Describe("DomainReconciler", func() {
	var (
		cache    *presence.Cache
		trigger  *testutil.FakeTrigger
		reporter *testutil.FakeFailureReporter
		factory  *testutil.TestDataFactory
		ctx      context.Context
	)

	BeforeEach(func() {
		cache = presence.NewCache()
		trigger = testutil.NewFakeTrigger()
		reporter = testutil.NewFakeFailureReporter()
		factory = testutil.NewTestDataFactory()
		ctx = context.Background()
	})

	It("infers Added and triggers make-right when the domain is not yet in the cache", func() {
		domain := factory.CreateStandardDomain()
		cl := fake.NewClientBuilder().WithScheme(newScheme()).WithObjects(domain).Build()
		dispatcher := watch.NewDispatcher(cache, trigger, reporter, nil, nil, testr.New(GinkgoT()))
		r := controller.NewDomainReconciler(cl, cache, dispatcher, testr.New(GinkgoT()))

		_, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: types.NamespacedName{Namespace: domain.Namespace, Name: domain.Name}})
		Expect(err).NotTo(HaveOccurred())

		Expect(trigger.Len()).To(Equal(1))
		Expect(trigger.Last().Opts.Interrupt).To(BeTrue())
	})

	It("infers Modified and triggers make-right without interrupt once the domain is cached", func() {
		domain := factory.CreateStandardDomain()
		cl := fake.NewClientBuilder().WithScheme(newScheme()).WithObjects(domain).Build()
		dispatcher := watch.NewDispatcher(cache, trigger, reporter, nil, nil, testr.New(GinkgoT()))
		r := controller.NewDomainReconciler(cl, cache, dispatcher, testr.New(GinkgoT()))

		info := cache.GetOrCreate(domain.Namespace, domain.DomainUID())
		cached := domain.DeepCopy()
		cached.Generation = 0
		info.SetDomain(cached)

		_, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: types.NamespacedName{Namespace: domain.Namespace, Name: domain.Name}})
		Expect(err).NotTo(HaveOccurred())

		Expect(trigger.Len()).To(Equal(1))
		Expect(trigger.Last().Opts.Interrupt).To(BeFalse())
	})

	It("treats a NotFound Get as Deleted and runs the down-plan using the cached domain", func() {
		domain := factory.CreateStandardDomain()
		cl := fake.NewClientBuilder().WithScheme(newScheme()).Build()
		dispatcher := watch.NewDispatcher(cache, trigger, reporter, nil, nil, testr.New(GinkgoT()))
		r := controller.NewDomainReconciler(cl, cache, dispatcher, testr.New(GinkgoT()))

		info := cache.GetOrCreate(domain.Namespace, domain.DomainUID())
		info.SetDomain(domain)

		_, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: types.NamespacedName{Namespace: domain.Namespace, Name: domain.Name}})
		Expect(err).NotTo(HaveOccurred())

		Expect(trigger.Len()).To(Equal(1))
		last := trigger.Last()
		Expect(last.Opts.ForDeletion).To(BeTrue())
		Expect(last.Opts.ExplicitRecheck).To(BeTrue())
	})

	It("is a no-op when the domain is gone and was never cached", func() {
		cl := fake.NewClientBuilder().WithScheme(newScheme()).Build()
		dispatcher := watch.NewDispatcher(cache, trigger, reporter, nil, nil, testr.New(GinkgoT()))
		r := controller.NewDomainReconciler(cl, cache, dispatcher, testr.New(GinkgoT()))

		_, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: types.NamespacedName{Namespace: "ns1", Name: "ghost"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(trigger.Len()).To(Equal(0))
	})
})
