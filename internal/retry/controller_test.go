package retry_test

import (
	"errors"
	"time"

	"github.com/go-logr/logr/testr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thegridman/weblogic-kubernetes-operator/internal/config"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/makeright"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/retry"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/testutil"
)

func fastRetryTuning() config.Tuning {
	t := config.DefaultTuning()
	t.DomainPresenceFailureRetrySeconds = 10 * time.Millisecond
	t.DomainPresenceFailureRetryMaxCount = 2
	return t
}

var _ = Describe("Controller", func() {
	var (
		trigger  *testutil.FakeTrigger
		reporter *testutil.FakeFailureReporter
		ctrl     *retry.Controller
		info     *presence.DomainPresenceInfo
	)

	BeforeEach(func() {
		trigger = testutil.NewFakeTrigger()
		reporter = testutil.NewFakeFailureReporter()
		ctrl = retry.NewController(trigger, reporter, fastRetryTuning, testr.New(GinkgoT()))
		info = presence.New("ns1", "dom1")
	})

	It("reports the failure to the status reporter", func() {
		info.IncrementFailureCount()
		ctrl.OnThrowable("ns1", "dom1", info, makeright.RunOptions{}, errors.New("boom"))

		Expect(reporter.MakeRightFailures).To(HaveLen(1))
	})

	It("schedules a retry with explicitRecheck when under the retry budget", func() {
		info.IncrementFailureCount()
		ctrl.OnThrowable("ns1", "dom1", info, makeright.RunOptions{}, errors.New("boom"))

		Eventually(trigger.Len, time.Second).Should(Equal(1))
		last := trigger.Last()
		Expect(last.Opts.ExplicitRecheck).To(BeTrue())
		Expect(last.Opts.ForDeletion).To(BeFalse())
	})

	It("preserves the deleting flag on the scheduled retry", func() {
		info.SetDeleting(true)
		info.IncrementFailureCount()
		ctrl.OnThrowable("ns1", "dom1", info, makeright.RunOptions{ForDeletion: true}, errors.New("boom"))

		Eventually(trigger.Len, time.Second).Should(Equal(1))
		Expect(trigger.Last().Opts.ForDeletion).To(BeTrue())
	})

	It("stops retrying once the failure count exceeds maxFailureRetries", func() {
		for i := 0; i < 3; i++ {
			info.IncrementFailureCount()
		}
		ctrl.OnThrowable("ns1", "dom1", info, makeright.RunOptions{}, errors.New("boom"))

		Consistently(trigger.Len, 100*time.Millisecond).Should(Equal(0))
	})
})
