package makeright_test

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	weblogicv1alpha1 "github.com/thegridman/weblogic-kubernetes-operator/api/weblogic/v1alpha1"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/config"
	weblogicerrors "github.com/thegridman/weblogic-kubernetes-operator/internal/errors"
	"github.com/thegridman/weblogic-kubernetes-operator/internal/makeright"
)

func domainWith(rv, image string) *weblogicv1alpha1.Domain {
	return &weblogicv1alpha1.Domain{
		ObjectMeta: metav1.ObjectMeta{Name: "d1", Namespace: "ns1", ResourceVersion: rv},
		Spec:       weblogicv1alpha1.DomainSpec{Image: image},
	}
}

var _ = Describe("Decide", func() {
	It("runs the up-plan on first adoption when there is no cached domain", func() {
		d := makeright.Decide(makeright.DecisionInput{
			LiveDomain:   domainWith("1", "img:1"),
			CachedDomain: nil,
		})
		Expect(d.Run).To(BeTrue())
		Expect(d.Plan).To(Equal(makeright.PlanUp))
	})

	It("selects the down-plan on first adoption when the options ask for deletion", func() {
		d := makeright.Decide(makeright.DecisionInput{
			LiveDomain:   domainWith("1", "img:1"),
			CachedDomain: nil,
			Options:      makeright.RunOptions{ForDeletion: true},
		})
		Expect(d.Run).To(BeTrue())
		Expect(d.Plan).To(Equal(makeright.PlanDown))
	})

	It("ignores a stale event whose cached resource version is newer than the live one", func() {
		d := makeright.Decide(makeright.DecisionInput{
			LiveDomain:   domainWith("5", "img:1"),
			CachedDomain: domainWith("9", "img:1"),
		})
		Expect(d.Run).To(BeFalse())
	})

	It("refuses to run once the introspector retry budget is exhausted with no image or version change", func() {
		live := domainWith("2", "img:1")
		cached := domainWith("1", "img:1")
		d := makeright.Decide(makeright.DecisionInput{
			LiveDomain:                live,
			CachedDomain:              cached,
			IntrospectJobFailureCount: 5,
			MaxFailureRetries:         5,
		})
		Expect(d.Run).To(BeFalse())
	})

	It("runs again after a retry-budget exhaustion once the image changes", func() {
		live := domainWith("2", "img:2")
		cached := domainWith("1", "img:1")
		d := makeright.Decide(makeright.DecisionInput{
			LiveDomain:                live,
			CachedDomain:              cached,
			IntrospectJobFailureCount: 5,
			MaxFailureRetries:         5,
		})
		Expect(d.Run).To(BeTrue())
		Expect(d.Plan).To(Equal(makeright.PlanUp))
	})

	It("treats a fatal introspector error as terminal", func() {
		live := domainWith("2", "img:2")
		live.Status.Message = "something failed: " + weblogicerrors.FatalIntrospectorErrorToken
		cached := domainWith("1", "img:1")
		d := makeright.Decide(makeright.DecisionInput{
			LiveDomain:   live,
			CachedDomain: cached,
		})
		Expect(d.Run).To(BeFalse())
	})

	It("runs on an explicit recheck even with an unchanged spec", func() {
		live := domainWith("2", "img:1")
		cached := domainWith("1", "img:1")
		d := makeright.Decide(makeright.DecisionInput{
			LiveDomain:        live,
			CachedDomain:      cached,
			MaxFailureRetries: 5,
			Options:           makeright.RunOptions{ExplicitRecheck: true},
		})
		Expect(d.Run).To(BeTrue())
	})

	It("runs when the spec differs between live and cached", func() {
		live := domainWith("2", "img:2")
		cached := domainWith("1", "img:1")
		d := makeright.Decide(makeright.DecisionInput{
			LiveDomain:   live,
			CachedDomain: cached,
		})
		Expect(d.Run).To(BeTrue())
	})

	It("declines to run when nothing changed and no recheck was requested", func() {
		live := domainWith("2", "img:1")
		cached := domainWith("1", "img:1")
		d := makeright.Decide(makeright.DecisionInput{
			LiveDomain:        live,
			CachedDomain:      cached,
			MaxFailureRetries: 5,
		})
		Expect(d.Run).To(BeFalse())
	})
})

var _ = Describe("CoerceOnlineUpdate", func() {
	newModelDomain := func(rv, introspectVersion string, onlineUpdate bool) *weblogicv1alpha1.Domain {
		d := domainWith(rv, "img:1")
		d.Spec.DomainHomeSourceType = weblogicv1alpha1.DomainSourceFromModel
		d.Spec.Configuration.Model.OnlineUpdate.Enabled = onlineUpdate
		d.Spec.IntrospectVersion = introspectVersion
		return d
	}

	It("leaves onlineUpdate alone when the domain isn't Model-in-Image", func() {
		live := domainWith("2", "img:1")
		live.Spec.Configuration.Model.OnlineUpdate.Enabled = true
		out := makeright.CoerceOnlineUpdate(live, nil, config.DefaultTuning())
		Expect(out).To(BeIdenticalTo(live))
	})

	It("leaves onlineUpdate alone when it isn't enabled", func() {
		live := newModelDomain("2", "v2", false)
		out := makeright.CoerceOnlineUpdate(live, nil, config.DefaultTuning())
		Expect(out).To(BeIdenticalTo(live))
	})

	It("leaves onlineUpdate enabled when only whitelisted fields changed", func() {
		cached := newModelDomain("1", "v1", true)
		live := newModelDomain("2", "v2", true)
		out := makeright.CoerceOnlineUpdate(live, cached, config.DefaultTuning())
		Expect(out.Spec.Configuration.Model.OnlineUpdate.Enabled).To(BeTrue())
	})

	It("forces onlineUpdate off on a copy when a non-whitelisted field changed alongside it", func() {
		cached := newModelDomain("1", "v1", true)
		live := newModelDomain("2", "v2", true)
		live.Spec.Image = "img:2"
		out := makeright.CoerceOnlineUpdate(live, cached, config.DefaultTuning())
		Expect(out).NotTo(BeIdenticalTo(live))
		Expect(out.Spec.Configuration.Model.OnlineUpdate.Enabled).To(BeFalse())
		Expect(live.Spec.Configuration.Model.OnlineUpdate.Enabled).To(BeTrue())
	})
})
