// Package makeright implements the Make-Right Planner: the decision
// function that decides whether to run, and the step-chain builders for
// the up-plan, down-plan, and status-only paths.
package makeright

import (
	"reflect"
	"strings"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/config"
	weblogicerrors "github.com/thegridman/weblogic-kubernetes-operator/internal/errors"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/presence"
)

// Plan identifies which step chain a Decision calls for.
type Plan int

const (
	PlanNone Plan = iota
	PlanUp
	PlanDown
)

// RunOptions carries the trigger flags the watch dispatcher and retry
// controller set when asking the planner to (re)consider a domain.
type RunOptions struct {
	// ExplicitRecheck forces rule 5 to treat this as a run even if the spec
	// is unchanged (used for Pod/Service/ConfigMap triggers and retries).
	ExplicitRecheck bool
	// ForDeletion selects the down-plan when Run is true.
	ForDeletion bool
	// Interrupt asks the FiberGate to cancel any current fiber before starting.
	Interrupt bool
}

// Decision is the Make-Right Planner's output: whether to run, and which plan.
type Decision struct {
	Run  bool
	Plan Plan
}

// DecisionInput bundles everything the decision function needs: the live
// Domain just observed, the cached Domain (nil if this is the first time
// this domain has been seen), and trigger context.
type DecisionInput struct {
	LiveDomain                *weblogicv1alpha1.Domain
	CachedDomain              *weblogicv1alpha1.Domain
	IntrospectJobFailureCount int32
	MaxFailureRetries         int
	Options                   RunOptions
}

// Decide implements the ordered decision rules from the Make-Right
// Planner's contract.
func Decide(in DecisionInput) Decision {
	// Rule 1: initial adoption.
	if in.CachedDomain == nil {
		return Decision{Run: true, Plan: planFor(in.Options)}
	}

	// Rule 2: stale event.
	if presence.CompareResourceVersion(in.CachedDomain.ResourceVersion, in.LiveDomain.ResourceVersion) > 0 {
		return Decision{Run: false}
	}

	// Rule 3: introspector exhausted retries with no relevant spec change.
	if int(in.IntrospectJobFailureCount) >= in.MaxFailureRetries && !imageOrVersionChanged(in.LiveDomain, in.CachedDomain) {
		return Decision{Run: false}
	}

	// Rule 4: fatal introspector error is terminal.
	if strings.Contains(in.LiveDomain.Status.Message, weblogicerrors.FatalIntrospectorErrorToken) {
		return Decision{Run: false}
	}

	// Rule 5: explicit recheck or a real spec change.
	if in.Options.ExplicitRecheck || !reflect.DeepEqual(in.LiveDomain.Spec, in.CachedDomain.Spec) {
		return Decision{Run: true, Plan: planFor(in.Options)}
	}

	// Rule 6: nothing to do beyond a status refresh.
	return Decision{Run: false}
}

func planFor(opts RunOptions) Plan {
	if opts.ForDeletion {
		return PlanDown
	}
	return PlanUp
}

func imageOrVersionChanged(live, cached *weblogicv1alpha1.Domain) bool {
	return live.Spec.Image != cached.Spec.Image ||
		live.Spec.RestartVersion != cached.Spec.RestartVersion ||
		live.Spec.IntrospectVersion != cached.Spec.IntrospectVersion
}

// CoerceOnlineUpdate implements the Model-in-Image additional rule: if
// onlineUpdate.enabled=true and the spec delta between cached and live
// contains anything beyond the configured whitelist (by default just
// introspectVersion and onlineUpdate.enabled itself), onlineUpdate.enabled
// is forced false on a copy of live before the up-plan runs.
func CoerceOnlineUpdate(live, cached *weblogicv1alpha1.Domain, tuning config.Tuning) *weblogicv1alpha1.Domain {
	if live.Spec.DomainHomeSourceType != weblogicv1alpha1.DomainSourceFromModel {
		return live
	}
	if !live.Spec.Configuration.Model.OnlineUpdate.Enabled {
		return live
	}
	if cached == nil {
		return live
	}

	for _, path := range diffSpecPaths(&live.Spec, &cached.Spec) {
		if !tuning.IsOnlineUpdateCompatible(path) {
			out := live.DeepCopy()
			out.Spec.Configuration.Model.OnlineUpdate.Enabled = false
			return out
		}
	}
	return live
}

// diffSpecPaths returns the dot-paths (rooted at "spec") of every top-level
// and one-level-nested field that differs between a and b. Slices, maps,
// and pointers are compared and reported as a whole changed path rather
// than recursed into further; this is sufficient to express the
// online-update compatibility whitelist, which only ever names leaf
// scalar fields up to two levels deep.
func diffSpecPaths(a, b *weblogicv1alpha1.DomainSpec) []string {
	var paths []string
	av := reflect.ValueOf(*a)
	bv := reflect.ValueOf(*b)
	t := av.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := jsonFieldName(field)
		if name == "" {
			continue
		}
		af := av.Field(i)
		bf := bv.Field(i)

		if af.Kind() == reflect.Struct && af.Type() == reflect.TypeOf(weblogicv1alpha1.Configuration{}) {
			paths = append(paths, diffNestedPaths("spec."+name, af, bf)...)
			continue
		}

		if !reflect.DeepEqual(af.Interface(), bf.Interface()) {
			paths = append(paths, "spec."+name)
		}
	}
	return paths
}

// diffNestedPaths recurses two levels into Configuration to reach
// configuration.model.onlineUpdate.enabled, the one nested field the
// whitelist cares about.
func diffNestedPaths(prefix string, av, bv reflect.Value) []string {
	var paths []string
	t := av.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := jsonFieldName(field)
		if name == "" {
			continue
		}
		af := av.Field(i)
		bf := bv.Field(i)
		path := prefix + "." + name

		if af.Kind() == reflect.Struct && af.Type().NumField() > 0 && af.Type() != reflect.TypeOf("") {
			if af.Type() == reflect.TypeOf(weblogicv1alpha1.ModelConfiguration{}) || af.Type() == reflect.TypeOf(weblogicv1alpha1.OnlineUpdate{}) {
				paths = append(paths, diffNestedPaths(path, af, bf)...)
				continue
			}
		}
		if !reflect.DeepEqual(af.Interface(), bf.Interface()) {
			paths = append(paths, path)
		}
	}
	return paths
}

func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return f.Name
	}
	return name
}
