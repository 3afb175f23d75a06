package makeright

import (
	"fmt"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/config"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/policy"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/validation"
)

// clusterStartedServers computes the started set for one cluster, first
// validating any dynamic-cluster server names per spec's edge cases.
func clusterStartedServers(domain *weblogicv1alpha1.Domain, cluster weblogicv1alpha1.ClusterSpec, tuning config.Tuning) (map[string]bool, error) {
	var names []string
	if cluster.DynamicClusterSize > 0 {
		names = policy.DynamicServerNames(cluster.ClusterName+"-server", int(cluster.DynamicClusterSize))
		for _, n := range names {
			if err := validation.ValidateDynamicClusterIndex(n, cluster.ClusterName+"-server", tuning.MaxDynamicClusterSize); err != nil {
				return nil, err
			}
		}
	} else {
		for _, ms := range domain.Spec.ManagedServers {
			if ms.ClusterName == cluster.ClusterName {
				names = append(names, ms.ServerName)
			}
		}
		names = policy.SortStatic(names)
	}

	entries := make([]policy.ServerEntry, 0, len(names))
	for _, name := range names {
		if err := validation.ValidateServerName(name); err != nil {
			return nil, err
		}
		override := serverOverridePolicy(domain, name)
		effective := policy.EffectivePolicy(override, cluster.ServerStartPolicy, domain.Spec.ServerStartPolicy)
		entries = append(entries, policy.ServerEntry{Name: name, Policy: effective})
	}

	replicas := 0
	if cluster.Replicas != nil {
		replicas = int(*cluster.Replicas)
	}
	return policy.StartedSet(entries, replicas), nil
}

func serverOverridePolicy(domain *weblogicv1alpha1.Domain, serverName string) weblogicv1alpha1.StartPolicy {
	for _, ms := range domain.Spec.ManagedServers {
		if ms.ServerName == serverName {
			return ms.ServerStartPolicy
		}
	}
	return ""
}

// computeStartedServers unions the started set across every cluster named
// in the domain spec.
func computeStartedServers(domain *weblogicv1alpha1.Domain, tuning config.Tuning) (map[string]bool, error) {
	started := make(map[string]bool)
	for _, cluster := range domain.Spec.Clusters {
		set, err := clusterStartedServers(domain, cluster, tuning)
		if err != nil {
			return nil, fmt.Errorf("cluster %s: %w", cluster.ClusterName, err)
		}
		for name := range set {
			started[name] = true
		}
	}
	return started, nil
}
