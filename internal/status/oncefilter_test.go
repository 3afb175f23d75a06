package status_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thegridman/weblogic-kubernetes-operator/internal/status"
)

var _ = Describe("OnceFilter", func() {
	It("emits only the first time a key is logged", func() {
		f := status.NewOnceFilter()
		count := 0
		emit := func() { count++ }

		f.LogOnce("k1", emit)
		f.LogOnce("k1", emit)
		f.LogOnce("k1", emit)

		Expect(count).To(Equal(1))
	})

	It("emits again after Reset", func() {
		f := status.NewOnceFilter()
		count := 0
		emit := func() { count++ }

		f.LogOnce("k1", emit)
		f.Reset("k1")
		f.LogOnce("k1", emit)

		Expect(count).To(Equal(2))
	})

	It("tracks keys independently", func() {
		f := status.NewOnceFilter()
		countA, countB := 0, 0

		f.LogOnce("a", func() { countA++ })
		f.LogOnce("b", func() { countB++ })
		f.LogOnce("a", func() { countA++ })

		Expect(countA).To(Equal(1))
		Expect(countB).To(Equal(1))
	})
})
