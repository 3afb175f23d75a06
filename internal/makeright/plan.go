package makeright

import (
	"context"
	"fmt"

	"github.com/thegridman/weblogic-kubernetes-operator/internal/config"
	weblogicerrors "github.com/thegridman/weblogic-kubernetes-operator/internal/errors"
	weblogicfiber "github.com/thegridman/weblogic-kubernetes-operator/internal/fiber"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

// introspectorConfigMapName follows the naming convention given in the
// engine's external interfaces: "<uid>-weblogic-domain-introspect-cm".
func introspectorConfigMapName(domainUID string) string {
	return domainUID + "-weblogic-domain-introspect-cm"
}

// introspectorJobName follows toJobIntrospectorName(domainUid).
func introspectorJobName(domainUID string) string {
	return domainUID + "-introspector"
}

// populatePacketServerMaps seeds the packet with the started-server set
// computed from the spec of the Domain held in info, ahead of either an
// up-plan or a down-plan. Per-server state from the Domain status is not
// read. A validation failure is recorded in the packet instead, for
// afterIntrospectValidation to raise.
func populatePacketServerMaps(tuning config.Tuning) weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		info := p.Info()
		domain := info.Domain()
		if domain == nil {
			return weblogicfiber.End()
		}
		started, err := computeStartedServers(domain, tuning)
		if err != nil {
			p.Put(keyValidationFailed, err.Error())
			return weblogicfiber.Continue(nil)
		}
		p.Put(keyServerStartedSet, started)
		return weblogicfiber.Continue(nil)
	})
}

// upHead clears the deleting flag before any up-plan mutation runs.
func upHead() weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		p.Info().SetDeleting(false)
		return weblogicfiber.Continue(nil)
	})
}

// downHead marks the domain deleting; callers are responsible for stopping
// the status updater for this domain before or alongside this step.
func downHead() weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		p.Info().SetDeleting(true)
		return weblogicfiber.Continue(nil)
	})
}

func readIntrospectorConfigMap(act Actuator) weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		data, ok, err := act.ReadIntrospectorConfigMap(ctx, p.Info())
		if err != nil {
			panic(&weblogicerrors.TransientError{Err: err})
		}
		if ok {
			p.Put(keyIntrospectorResult, data)
		}
		return weblogicfiber.Continue(nil)
	})
}

// domainPresenceSeed lists pods/services once per domain adoption, before
// any CREATE/DELETE is attempted, per the populated invariant.
func domainPresenceSeed(act Actuator) weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		info := p.Info()
		if info.Populated() {
			return weblogicfiber.Continue(nil)
		}
		pods, svcs, err := act.ListDomainResources(ctx, info.Namespace, info.DomainUID)
		if err != nil {
			panic(&weblogicerrors.TransientError{Err: err})
		}
		for i := range pods {
			pod := pods[i]
			if name, ok := pod.Labels["weblogic.serverName"]; ok {
				info.SetServerPod(name, &pod)
			}
		}
		for i := range svcs {
			svc := svcs[i]
			info.SetService(svc.Name, &svc)
		}
		info.SetPopulated(true)
		return weblogicfiber.Continue(nil)
	})
}

// introspectionStep requests an introspector job only when no introspector
// ConfigMap was read: it has the actuator replace any stale job with a
// fresh one, and suspends until it completes. A changed introspectVersion
// alone does not request a job while the ConfigMap exists.
func introspectionStep(act Actuator) weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		info := p.Info()
		_, haveConfigMap := p.Get(keyIntrospectorResult)
		if haveConfigMap {
			return weblogicfiber.Continue(nil)
		}
		if err := act.EnsureIntrospectorJob(ctx, info); err != nil {
			panic(&weblogicerrors.TransientError{Err: err})
		}
		resume := weblogicfiber.StepFunc(func(context.Context, *weblogicfiber.Packet) weblogicfiber.NextAction {
			return weblogicfiber.Continue(nil)
		})
		return act.WaitForIntrospectorJob(ctx, info, p.Fiber(), resume)
	})
}

func afterIntrospectValidation(tuning config.Tuning) weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		if reason, ok := p.Get(keyValidationFailed); ok {
			panic(&weblogicerrors.ValidationError{Reason: fmt.Sprint(reason)})
		}
		return weblogicfiber.Continue(nil)
	})
}

// scheduleStatusUpdater is a hook point the Runner fills in with a closure
// that starts this domain's periodic status-read ticker; see runner.go.
func scheduleStatusUpdater(start func(info *presence.DomainPresenceInfo)) weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		if start != nil {
			start(p.Info())
		}
		return weblogicfiber.Continue(nil)
	})
}

func adminServerBringUp(act Actuator) weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		info := p.Info()
		domain := info.Domain()
		if err := act.EnsureAdminPod(ctx, info); err != nil {
			panic(&weblogicerrors.TransientError{Err: err})
		}
		if domain.Spec.AdminServer.AdminService != nil {
			if err := act.EnsureExternalAdminService(ctx, info); err != nil {
				panic(&weblogicerrors.TransientError{Err: err})
			}
		}
		if err := act.EnsureAdminService(ctx, info); err != nil {
			panic(&weblogicerrors.TransientError{Err: err})
		}
		resume := weblogicfiber.StepFunc(func(context.Context, *weblogicfiber.Packet) weblogicfiber.NextAction {
			return weblogicfiber.Continue(nil)
		})
		return act.WaitForAdminPodReady(ctx, info, p.Fiber(), resume)
	})
}

// managedServersBringUp creates or deletes each managed server pod to
// match the started set computed by populatePacketServerMaps.
func managedServersBringUp(act Actuator) weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		info := p.Info()
		started, _ := p.Get(keyServerStartedSet)
		startedSet, _ := started.(map[string]bool)

		for name := range startedSet {
			if info.BeingDeleted(name) {
				continue
			}
			if err := act.EnsureManagedServerPod(ctx, info, name); err != nil {
				panic(&weblogicerrors.TransientError{Err: err})
			}
			if err := act.EnsureManagedServerService(ctx, info, name); err != nil {
				panic(&weblogicerrors.TransientError{Err: err})
			}
		}

		for name := range info.ServerPods() {
			if name == "" || startedSet[name] {
				continue
			}
			info.SetBeingDeleted(name, true)
			if err := act.DeleteManagedServerPod(ctx, info, name); err != nil {
				panic(&weblogicerrors.TransientError{Err: err})
			}
		}

		return weblogicfiber.Continue(nil)
	})
}

func endProgressing() weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		p.Put(keyProgressing, false)
		return weblogicfiber.Continue(nil)
	})
}

// tail finalizes a successful up-plan: it zeroes the failure count and
// (re)registers info in the cache.
func tail(cache *presence.Cache) weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		info := p.Info()
		info.ResetFailureCount()
		cache.Register(info)
		return weblogicfiber.End()
	})
}

func deleteAllResources(act Actuator) weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		if err := act.DeleteAllDomainResources(ctx, p.Info()); err != nil {
			panic(&weblogicerrors.TransientError{Err: err})
		}
		return weblogicfiber.Continue(nil)
	})
}

// unregister removes the domain's presence entry, the terminal step of a
// successful down-plan.
func unregister(cache *presence.Cache) weblogicfiber.Step {
	return weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
		info := p.Info()
		cache.Unregister(info.Namespace, info.DomainUID)
		return weblogicfiber.End()
	})
}

// BuildUpPlan assembles the step chain that brings a domain's admin server
// and managed servers up to match its spec.
func BuildUpPlan(act Actuator, cache *presence.Cache, tuning config.Tuning, startStatusUpdater func(*presence.DomainPresenceInfo)) weblogicfiber.Step {
	return weblogicfiber.Chain(
		populatePacketServerMaps(tuning),
		upHead(),
		readIntrospectorConfigMap(act),
		domainPresenceSeed(act),
		introspectionStep(act),
		afterIntrospectValidation(tuning),
		scheduleStatusUpdater(startStatusUpdater),
		adminServerBringUp(act),
		managedServersBringUp(act),
		endProgressing(),
		tail(cache),
	)
}

// BuildDownPlan assembles the step chain that tears a domain down.
func BuildDownPlan(act Actuator, cache *presence.Cache, tuning config.Tuning, stopStatusUpdater func(namespace, domainUID string)) weblogicfiber.Step {
	return weblogicfiber.Chain(
		populatePacketServerMaps(tuning),
		downHead(),
		weblogicfiber.StepFunc(func(ctx context.Context, p *weblogicfiber.Packet) weblogicfiber.NextAction {
			if stopStatusUpdater != nil {
				info := p.Info()
				stopStatusUpdater(info.Namespace, info.DomainUID)
			}
			return weblogicfiber.Continue(nil)
		}),
		deleteAllResources(act),
		unregister(cache),
	)
}
