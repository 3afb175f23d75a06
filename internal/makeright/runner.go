package makeright

import (
	"context"

	"github.com/go-logr/logr"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/config"
	weblogicfiber "github.com/thegridman/weblogic-kubernetes-operator/internal/fiber"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/metrics"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

// ThrowableHandler is notified when a make-right fiber ends in an uncaught
// error, so the Retry/Backoff Controller can decide whether and when to
// try again.
type ThrowableHandler func(namespace, domainUID string, info *presence.DomainPresenceInfo, opts RunOptions, err error)

// Runner owns the make-right FiberGate and ties the decision function, the
// plan builders, the Domain Presence Cache, and the Actuator together into
// the single entry point the Watch Dispatcher and Retry/Backoff Controller
// call into: Trigger.
type Runner struct {
	cache    *presence.Cache
	gate     *weblogicfiber.Gate
	act      Actuator
	tuning   func() config.Tuning
	logger   logr.Logger

	onThrowable        ThrowableHandler
	startStatusUpdater func(info *presence.DomainPresenceInfo)
	stopStatusUpdater  func(namespace, domainUID string)
}

// NewRunner builds a Runner. tuning is called fresh on every Trigger so
// config hot-reloads (internal/config.Loader) take effect without a
// restart. startStatusUpdater/stopStatusUpdater/onThrowable may be nil
// during early wiring and set afterward with the With* methods, since the
// status updater and retry controller are themselves constructed with a
// reference to this Runner.
func NewRunner(cache *presence.Cache, executor *weblogicfiber.Executor, act Actuator, tuning func() config.Tuning, logger logr.Logger) *Runner {
	return &Runner{
		cache:  cache,
		gate:   weblogicfiber.NewGate(executor),
		act:    act,
		tuning: tuning,
		logger: logger,
	}
}

// WithStatusUpdaterHooks wires the start/stop callbacks the up-plan and
// down-plan call to schedule and cancel a domain's periodic status-read
// ticker on the independent status FiberGate.
func (r *Runner) WithStatusUpdaterHooks(start func(info *presence.DomainPresenceInfo), stop func(namespace, domainUID string)) *Runner {
	r.startStatusUpdater = start
	r.stopStatusUpdater = stop
	return r
}

// WithThrowableHandler wires the Retry/Backoff Controller's OnThrowable hook.
func (r *Runner) WithThrowableHandler(h ThrowableHandler) *Runner {
	r.onThrowable = h
	return r
}

func gateKey(namespace, domainUID string) string { return namespace + "/" + domainUID }

// Trigger is the single entry point the Watch Dispatcher and the
// Retry/Backoff Controller call to ask the planner to (re)consider a
// domain. It evaluates Decide, and if it calls for a run, builds the
// matching plan and starts it on the make-right gate honoring
// opts.Interrupt.
func (r *Runner) Trigger(ctx context.Context, namespace, domainUID string, live *weblogicv1alpha1.Domain, opts RunOptions) {
	info := r.cache.GetOrCreate(namespace, domainUID)
	cached := info.Domain()
	tuning := r.tuning()

	decision := Decide(DecisionInput{
		LiveDomain:                live,
		CachedDomain:              cached,
		IntrospectJobFailureCount: int32(info.FailureCount()),
		MaxFailureRetries:         tuning.DomainPresenceFailureRetryMaxCount,
		Options:                   opts,
	})

	if !decision.Run {
		if live != nil {
			info.SetDomain(live)
		}
		return
	}

	effectiveLive := live
	if decision.Plan == PlanUp {
		effectiveLive = CoerceOnlineUpdate(live, cached, tuning)
	}
	info.SetDeleting(opts.ForDeletion)
	info.SetDomain(effectiveLive)

	var chain weblogicfiber.Step
	var planLabel string
	switch decision.Plan {
	case PlanUp:
		chain = BuildUpPlan(r.act, r.cache, tuning, r.startStatusUpdater)
		planLabel = "up"
	case PlanDown:
		chain = BuildDownPlan(r.act, r.cache, tuning, r.stopStatusUpdater)
		planLabel = "down"
	default:
		return
	}

	packet := weblogicfiber.NewPacket(info)
	key := gateKey(namespace, domainUID)

	cb := weblogicfiber.CompletionCallbackFuncs{
		Completion: func(p *weblogicfiber.Packet) {
			metrics.ActiveFibers.WithLabelValues(namespace).Dec()
			metrics.MakeRightTotal.WithLabelValues(namespace, planLabel, "success").Inc()
		},
		Throwable: func(p *weblogicfiber.Packet, err error) {
			metrics.ActiveFibers.WithLabelValues(namespace).Dec()
			metrics.MakeRightTotal.WithLabelValues(namespace, planLabel, "failure").Inc()
			metrics.MakeRightFailuresTotal.WithLabelValues(namespace, domainUID).Inc()
			info.IncrementFailureCount()
			r.logger.Error(err, "make-right fiber failed", "namespace", namespace, "domainUID", domainUID)
			if r.onThrowable != nil {
				r.onThrowable(namespace, domainUID, info, opts, err)
			}
		},
	}

	var started *weblogicfiber.Fiber
	if opts.Interrupt {
		started = r.gate.StartFiber(ctx, key, chain, packet, cb)
	} else {
		started = r.gate.StartFiberIfNoCurrentFiber(ctx, key, chain, packet, cb)
	}
	if started != nil {
		metrics.ActiveFibers.WithLabelValues(namespace).Inc()
	}
}

// CurrentFibers exposes the make-right gate's active fiber snapshot, for
// diagnostics and health endpoints.
func (r *Runner) CurrentFibers() map[string]*weblogicfiber.Fiber {
	return r.gate.CurrentFibers()
}
