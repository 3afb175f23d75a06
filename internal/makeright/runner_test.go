package makeright_test

import (
	"context"
	"time"

	"github.com/go-logr/logr/testr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thegridman/weblogic-kubernetes-operator/internal/config"
	weblogicfiber "github.com/thegridman/weblogic-kubernetes-operator/internal/fiber"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/makeright"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/testutil"
)

var _ = Describe("Runner", func() {
	var (
		cache    *presence.Cache
		executor *weblogicfiber.Executor
		act      *testutil.FakeActuator
		factory  *testutil.TestDataFactory
		runner   *makeright.Runner
		ctx      context.Context
	)

	BeforeEach(func() {
		cache = presence.NewCache()
		executor = weblogicfiber.NewExecutor(testr.New(GinkgoT()))
		act = testutil.NewFakeActuator()
		factory = testutil.NewTestDataFactory()
		runner = makeright.NewRunner(cache, executor, act, func() config.Tuning { return config.DefaultTuning() }, testr.New(GinkgoT()))
		ctx = context.Background()
	})

	It("runs the up-plan on first adoption and registers the domain in the cache", func() {
		domain := factory.CreateStandardDomain()
		runner.Trigger(ctx, domain.Namespace, domain.DomainUID(), domain, makeright.RunOptions{})

		Eventually(func() int { return act.CallCount("EnsureAdminPod") }, time.Second).Should(Equal(1))
		Eventually(func() *presence.DomainPresenceInfo {
			info, _ := cache.Get(domain.Namespace, domain.DomainUID())
			return info
		}, time.Second).ShouldNot(BeNil())
	})

	It("does not start a second fiber while one is already running for the same domain", func() {
		act.WaitForIntrospectorSuspends = true
		domain := factory.CreateStandardDomain()

		runner.Trigger(ctx, domain.Namespace, domain.DomainUID(), domain, makeright.RunOptions{})
		Eventually(func() int { return act.CallCount("WaitForIntrospectorJob") }, time.Second).Should(Equal(1))

		runner.Trigger(ctx, domain.Namespace, domain.DomainUID(), domain, makeright.RunOptions{})
		Consistently(func() int { return act.CallCount("WaitForIntrospectorJob") }, 200*time.Millisecond).Should(Equal(1))
	})

	It("notifies the throwable handler when the plan fails", func() {
		act.Errors["EnsureAdminPod"] = assertionError{"boom"}
		var reported error
		runner.WithThrowableHandler(func(namespace, domainUID string, info *presence.DomainPresenceInfo, opts makeright.RunOptions, err error) {
			reported = err
		})

		domain := factory.CreateStandardDomain()
		runner.Trigger(ctx, domain.Namespace, domain.DomainUID(), domain, makeright.RunOptions{})

		Eventually(func() error { return reported }, time.Second).ShouldNot(BeNil())
	})

	It("runs the down-plan and unregisters the domain when ForDeletion is set", func() {
		domain := factory.CreateStandardDomain()
		cache.Register(presence.New(domain.Namespace, domain.DomainUID()))

		runner.Trigger(ctx, domain.Namespace, domain.DomainUID(), domain, makeright.RunOptions{ForDeletion: true})

		Eventually(func() bool {
			_, ok := cache.Get(domain.Namespace, domain.DomainUID())
			return ok
		}, time.Second).Should(BeFalse())
		Expect(act.CallCount("DeleteAllDomainResources")).To(Equal(1))
	})
})

type assertionError struct{ msg string }

func (e assertionError) Error() string { return e.msg }
