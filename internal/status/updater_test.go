package status_test

import (
	"time"

	"github.com/go-logr/logr/testr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thegridman/weblogic-kubernetes-operator/internal/config"
	weblogicfiber "github.com/thegridman/weblogic-kubernetes-operator/internal/fiber"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/status"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/testutil"
)

func fastTuning() config.Tuning {
	t := config.DefaultTuning()
	t.InitialShortDelay = 10 * time.Millisecond
	t.StatusUpdateSteadyDelay = 20 * time.Millisecond
	t.StatusUpdateTimeoutSeconds = time.Second
	return t
}

var _ = Describe("Updater", func() {
	var (
		executor *weblogicfiber.Executor
		readerW  *testutil.FakeStatusReadWriter
		updater  *status.Updater
		info     *presence.DomainPresenceInfo
	)

	BeforeEach(func() {
		executor = weblogicfiber.NewExecutor(testr.New(GinkgoT()))
		readerW = testutil.NewFakeStatusReadWriter()
		updater = status.NewUpdater(executor, readerW, readerW, fastTuning, testr.New(GinkgoT()))
		info = presence.New("ns1", "dom1")
	})

	AfterEach(func() {
		updater.Stop(info.Namespace, info.DomainUID)
	})

	It("writes a status update after the initial short delay and again on the steady interval", func() {
		updater.Start(info)

		Eventually(readerW.WriteCount, time.Second).Should(BeNumerically(">=", 2))
	})

	It("is a no-op to Start the same domain twice", func() {
		updater.Start(info)
		updater.Start(info)

		Eventually(readerW.WriteCount, time.Second).Should(BeNumerically(">=", 1))
	})

	It("stops ticking once Stop is called", func() {
		updater.Start(info)
		Eventually(readerW.WriteCount, time.Second).Should(BeNumerically(">=", 1))

		updater.Stop(info.Namespace, info.DomainUID)
		count := readerW.WriteCount()
		Consistently(readerW.WriteCount, 100*time.Millisecond).Should(Equal(count))
	})
})
