package policy_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/policy"
)

var _ = Describe("EffectivePolicy", func() {
	It("prefers the server override over everything else", func() {
		got := policy.EffectivePolicy(weblogicv1alpha1.StartPolicyNever, weblogicv1alpha1.StartPolicyAlways, weblogicv1alpha1.StartPolicyAlways)
		Expect(got).To(Equal(weblogicv1alpha1.StartPolicyNever))
	})

	It("falls back to the cluster policy when no server override is set", func() {
		got := policy.EffectivePolicy("", weblogicv1alpha1.StartPolicyAlways, weblogicv1alpha1.StartPolicyNever)
		Expect(got).To(Equal(weblogicv1alpha1.StartPolicyAlways))
	})

	It("falls back to the domain policy when neither server nor cluster set one", func() {
		got := policy.EffectivePolicy("", "", weblogicv1alpha1.StartPolicyNever)
		Expect(got).To(Equal(weblogicv1alpha1.StartPolicyNever))
	})

	It("defaults to IF_NEEDED when nothing is set", func() {
		got := policy.EffectivePolicy("", "", "")
		Expect(got).To(Equal(weblogicv1alpha1.StartPolicyIfNeeded))
	})
})

var _ = Describe("SortStatic", func() {
	It("orders names numerically by trailing digit run, not lexicographically", func() {
		got := policy.SortStatic([]string{"server10", "server2", "server1"})
		Expect(got).To(Equal([]string{"server1", "server2", "server10"}))
	})

	It("falls back to lexicographic order when names carry no trailing digits", func() {
		got := policy.SortStatic([]string{"charlie", "alpha", "bravo"})
		Expect(got).To(Equal([]string{"alpha", "bravo", "charlie"}))
	})

	It("does not mutate the input slice", func() {
		input := []string{"server2", "server1"}
		_ = policy.SortStatic(input)
		Expect(input).To(Equal([]string{"server2", "server1"}))
	})
})

var _ = Describe("DynamicServerNames", func() {
	It("generates prefix-numbered names starting at 1", func() {
		got := policy.DynamicServerNames("cluster1-managed-server", 3)
		Expect(got).To(Equal([]string{
			"cluster1-managed-server1",
			"cluster1-managed-server2",
			"cluster1-managed-server3",
		}))
	})

	It("returns an empty slice for a zero-size cluster", func() {
		Expect(policy.DynamicServerNames("p", 0)).To(BeEmpty())
	})
})

var _ = Describe("StartedSet", func() {
	It("never starts a NEVER-policy server regardless of replica budget", func() {
		entries := []policy.ServerEntry{
			{Name: "s1", Policy: weblogicv1alpha1.StartPolicyNever},
		}
		started := policy.StartedSet(entries, 5)
		Expect(started).NotTo(HaveKey("s1"))
	})

	It("always starts ALWAYS-policy servers and counts them toward replicas", func() {
		entries := []policy.ServerEntry{
			{Name: "s1", Policy: weblogicv1alpha1.StartPolicyAlways},
			{Name: "s2", Policy: weblogicv1alpha1.StartPolicyAlways},
			{Name: "s3", Policy: weblogicv1alpha1.StartPolicyIfNeeded},
		}
		started := policy.StartedSet(entries, 2)
		Expect(started).To(HaveKey("s1"))
		Expect(started).To(HaveKey("s2"))
		Expect(started).NotTo(HaveKey("s3"))
	})

	It("starts no non-ALWAYS servers when replicas is zero", func() {
		entries := []policy.ServerEntry{
			{Name: "s1", Policy: weblogicv1alpha1.StartPolicyIfNeeded},
			{Name: "s2", Policy: weblogicv1alpha1.StartPolicyIfNeeded},
		}
		started := policy.StartedSet(entries, 0)
		Expect(started).To(BeEmpty())
	})

	It("fills the remaining replica budget with IF_NEEDED servers after ALWAYS is satisfied", func() {
		entries := []policy.ServerEntry{
			{Name: "always1", Policy: weblogicv1alpha1.StartPolicyAlways},
			{Name: "needed1", Policy: weblogicv1alpha1.StartPolicyIfNeeded},
			{Name: "needed2", Policy: weblogicv1alpha1.StartPolicyIfNeeded},
			{Name: "needed3", Policy: weblogicv1alpha1.StartPolicyIfNeeded},
		}
		started := policy.StartedSet(entries, 3)
		Expect(started).To(HaveLen(3))
		Expect(started).To(HaveKey("always1"))
		Expect(started).To(HaveKey("needed1"))
		Expect(started).To(HaveKey("needed2"))
		Expect(started).NotTo(HaveKey("needed3"))
	})

	It("starts every server when replicas meets or exceeds the non-ALWAYS pool size", func() {
		entries := []policy.ServerEntry{
			{Name: "s1", Policy: weblogicv1alpha1.StartPolicyIfNeeded},
			{Name: "s2", Policy: weblogicv1alpha1.StartPolicyIfNeeded},
		}
		started := policy.StartedSet(entries, 10)
		Expect(started).To(HaveLen(2))
	})
})
