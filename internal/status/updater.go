// Package status implements the Status Updater: a periodic, per-domain
// status-read fiber driven on its own FiberGate, independent of the
// make-right gate, per spec §4.7.
package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/config"
	weblogicerrors "github.com/thegridman/weblogic-kubernetes-operator/internal/errors"
	weblogicfiber "github.com/thegridman/weblogic-kubernetes-operator/internal/fiber"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/metrics"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

// Reader collects a domain's current per-server readiness, the external
// collaborator that actually talks to Kubernetes and to each server's
// health endpoint.
type Reader interface {
	ReadServerStatuses(ctx context.Context, info *presence.DomainPresenceInfo) ([]weblogicv1alpha1.ServerStatus, []weblogicv1alpha1.ClusterStatus, error)
}

// Writer persists the assembled Domain status via the status subresource.
type Writer interface {
	UpdateDomainStatus(ctx context.Context, info *presence.DomainPresenceInfo, servers []weblogicv1alpha1.ServerStatus, clusters []weblogicv1alpha1.ClusterStatus) error
}

// Updater runs one ticking fiber per adopted domain on an independent
// FiberGate, so a slow or stuck status read never contends with that
// domain's make-right fiber for the gate's single slot.
type Updater struct {
	gate     *weblogicfiber.Gate
	reader   Reader
	writer   Writer
	tuning   func() config.Tuning
	logger   logr.Logger
	once     *OnceFilter

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewUpdater builds an Updater that schedules its fibers on a fresh Gate
// backed by executor — the same Executor the make-right Runner uses, since
// both gates only ever serialize within themselves, not against each
// other.
func NewUpdater(executor *weblogicfiber.Executor, reader Reader, writer Writer, tuning func() config.Tuning, logger logr.Logger) *Updater {
	return &Updater{
		gate:    weblogicfiber.NewGate(executor),
		reader:  reader,
		writer:  writer,
		tuning:  tuning,
		logger:  logger,
		once:    NewOnceFilter(),
		cancels: make(map[string]context.CancelFunc),
	}
}

func updaterKey(namespace, domainUID string) string { return namespace + "/" + domainUID }

// Start schedules info's periodic status-read ticker, first firing after
// Tuning.InitialShortDelay and then every Tuning.StatusUpdateSteadyDelay.
// A second Start for an already-scheduled domain is a no-op.
func (u *Updater) Start(info *presence.DomainPresenceInfo) {
	key := updaterKey(info.Namespace, info.DomainUID)

	u.mu.Lock()
	if _, exists := u.cancels[key]; exists {
		u.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	u.cancels[key] = cancel
	u.mu.Unlock()

	go u.loop(ctx, info)
}

// Stop cancels the ticker for (namespace, domainUID), if one is running.
// The up-plan's scheduleStatusUpdater step calls Start; the down-plan step
// that follows downHead calls Stop before tearing down resources.
func (u *Updater) Stop(namespace, domainUID string) {
	key := updaterKey(namespace, domainUID)
	u.mu.Lock()
	cancel, ok := u.cancels[key]
	if ok {
		delete(u.cancels, key)
	}
	u.mu.Unlock()
	if ok {
		cancel()
	}
}

func (u *Updater) loop(ctx context.Context, info *presence.DomainPresenceInfo) {
	timer := time.NewTimer(u.tuning().InitialShortDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		u.tick(ctx, info)
		timer.Reset(u.tuning().StatusUpdateSteadyDelay)
	}
}

func (u *Updater) tick(ctx context.Context, info *presence.DomainPresenceInfo) {
	key := updaterKey(info.Namespace, info.DomainUID)
	tctx, cancel := context.WithTimeout(ctx, u.tuning().StatusUpdateTimeoutSeconds)
	defer cancel()

	start := time.Now()
	done := make(chan struct{})

	step := u.buildStep(info, key)
	packet := weblogicfiber.NewPacket(info)
	cb := weblogicfiber.CompletionCallbackFuncs{
		Completion: func(*weblogicfiber.Packet) { close(done) },
		Throwable: func(_ *weblogicfiber.Packet, err error) {
			u.once.LogOnce(key, func() {
				u.logger.Error(err, "status update failed", "namespace", info.Namespace, "domainUID", info.DomainUID)
			})
			close(done)
		},
	}

	f := u.gate.StartFiberIfNoCurrentFiber(tctx, key, step, packet, cb)
	if f == nil {
		// a status fiber from the previous tick is still in flight; skip
		// this tick rather than queueing behind it.
		return
	}

	select {
	case <-done:
	case <-tctx.Done():
	}
	metrics.StatusUpdateDuration.WithLabelValues(info.Namespace).Observe(time.Since(start).Seconds())
}

func (u *Updater) buildStep(info *presence.DomainPresenceInfo, key string) weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		servers, clusters, err := u.reader.ReadServerStatuses(ctx, info)
		if err != nil {
			panic(&weblogicerrors.TransientError{Err: fmt.Errorf("reading server statuses: %w", err)})
		}
		if err := u.writer.UpdateDomainStatus(ctx, info, servers, clusters); err != nil {
			panic(&weblogicerrors.TransientError{Err: fmt.Errorf("writing domain status: %w", err)})
		}
		u.once.Reset(key)
		return weblogicfiber.End()
	})
}
