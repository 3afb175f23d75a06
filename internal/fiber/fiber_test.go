package fiber_test

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr/testr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	weblogicerrors "github.com/thegridman/weblogic-kubernetes-operator/internal/errors"
	weblogicfiber "github.com/thegridman/weblogic-kubernetes-operator/internal/fiber"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

var _ = Describe("Executor", func() {
	var (
		executor *weblogicfiber.Executor
		packet   *weblogicfiber.Packet
		ctx      context.Context
	)

	BeforeEach(func() {
		executor = weblogicfiber.NewExecutor(testr.New(GinkgoT()))
		packet = weblogicfiber.NewPacket(presence.New("ns", "domain1"))
		ctx = context.Background()
	})

	It("runs a chain of steps to completion", func() {
		var order []string
		step1 := weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
			order = append(order, "step1")
			return weblogicfiber.Continue(nil)
		})
		step2 := weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
			order = append(order, "step2")
			return weblogicfiber.End()
		})
		chain := weblogicfiber.Chain(step1, step2)

		done := make(chan struct{})
		f := executor.Start(ctx, chain, packet, weblogicfiber.CompletionCallbackFuncs{
			Completion: func(*weblogicfiber.Packet) { close(done) },
		})

		Eventually(done).Should(BeClosed())
		Expect(order).To(Equal([]string{"step1", "step2"}))
		Expect(f.Status()).To(Equal(weblogicfiber.StatusCompleted))
	})

	It("delivers a panic to OnThrowable instead of crashing", func() {
		boom := weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
			panic("kaboom")
		})

		var caught error
		done := make(chan struct{})
		f := executor.Start(ctx, boom, packet, weblogicfiber.CompletionCallbackFuncs{
			Throwable: func(_ *weblogicfiber.Packet, err error) {
				caught = err
				close(done)
			},
		})

		Eventually(done).Should(BeClosed())
		Expect(caught).To(HaveOccurred())
		Expect(f.Status()).To(Equal(weblogicfiber.StatusFailed))
	})

	It("preserves a typed error panic so errors.As can recover it through the fiber boundary", func() {
		boom := weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
			panic(&weblogicerrors.ValidationError{Reason: "bad spec"})
		})

		var caught error
		done := make(chan struct{})
		executor.Start(ctx, boom, packet, weblogicfiber.CompletionCallbackFuncs{
			Throwable: func(_ *weblogicfiber.Packet, err error) {
				caught = err
				close(done)
			},
		})

		Eventually(done).Should(BeClosed())
		var validationErr *weblogicerrors.ValidationError
		Expect(errors.As(caught, &validationErr)).To(BeTrue())
		Expect(validationErr.Reason).To(Equal("bad spec"))
	})

	It("suspends and resumes via the packet's own fiber handle", func() {
		resumed := false
		final := weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
			resumed = true
			return weblogicfiber.End()
		})
		suspending := weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
			go p.Fiber().Resume(final)
			return weblogicfiber.Suspend()
		})

		done := make(chan struct{})
		executor.Start(ctx, suspending, packet, weblogicfiber.CompletionCallbackFuncs{
			Completion: func(*weblogicfiber.Packet) { close(done) },
		})

		Eventually(done, time.Second).Should(BeClosed())
		Expect(resumed).To(BeTrue())
	})

	It("cancels a running fiber cooperatively at the next suspension", func() {
		started := make(chan struct{})
		blocked := weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
			close(started)
			return weblogicfiber.Suspend()
		})

		done := make(chan struct{})
		f := executor.Start(ctx, blocked, packet, weblogicfiber.CompletionCallbackFuncs{
			Completion: func(*weblogicfiber.Packet) { close(done) },
		})

		<-started
		f.Cancel()
		Eventually(f.Done, time.Second).Should(BeTrue())
		Expect(f.Status()).To(Equal(weblogicfiber.StatusCancelled))
	})
})

var _ = Describe("Gate", func() {
	var (
		executor *weblogicfiber.Executor
		gate     *weblogicfiber.Gate
		ctx      context.Context
	)

	BeforeEach(func() {
		executor = weblogicfiber.NewExecutor(testr.New(GinkgoT()))
		gate = weblogicfiber.NewGate(executor)
		ctx = context.Background()
	})

	It("refuses a second fiber for the same key while one is active", func() {
		release := make(chan struct{})
		blocked := weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
			<-release
			return weblogicfiber.End()
		})
		packet := weblogicfiber.NewPacket(presence.New("ns", "d1"))

		f1 := gate.StartFiberIfNoCurrentFiber(ctx, "ns/d1", blocked, packet, nil)
		Expect(f1).NotTo(BeNil())

		f2 := gate.StartFiberIfNoCurrentFiber(ctx, "ns/d1", blocked, packet, nil)
		Expect(f2).To(BeNil())

		close(release)
		Eventually(f1.Done, time.Second).Should(BeTrue())
	})

	It("interrupts the current fiber when StartFiber is called", func() {
		cancelled := make(chan struct{})
		blocked := weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
			return weblogicfiber.Suspend()
		})
		packet := weblogicfiber.NewPacket(presence.New("ns", "d2"))

		f1 := gate.StartFiber(ctx, "ns/d2", blocked, packet, weblogicfiber.CompletionCallbackFuncs{
			Completion: func(*weblogicfiber.Packet) { close(cancelled) },
		})
		Expect(f1).NotTo(BeNil())

		f2 := gate.StartFiber(ctx, "ns/d2", blocked, packet, nil)
		Expect(f2).NotTo(BeNil())
		Eventually(f1.Done, time.Second).Should(BeTrue())
		Expect(f1.Status()).To(Equal(weblogicfiber.StatusCancelled))
	})
})
