package node_test

import (
	"net"

	"feinstaub-server/internal/infra/node"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Node", func() {
	ginkgo.Context("Current", func() {
		ginkgo.It("should return an identity with all fields", func() {
			identity := node.Current()

			gomega.Expect(identity.ID).ToNot(gomega.BeEmpty())
			gomega.Expect(identity.IPAddress).ToNot(gomega.BeEmpty())
			gomega.Expect(identity.Version).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should use a UUID as the node ID", func() {
			identity := node.Current()

			gomega.Expect(len(identity.ID)).To(gomega.Equal(36))
		})

		ginkgo.It("should return a parseable IP address", func() {
			identity := node.Current()

			gomega.Expect(net.ParseIP(identity.IPAddress)).ToNot(gomega.BeNil())
		})

		ginkgo.It("should return the same identity on every call", func() {
			first := node.Current()
			second := node.Current()

			gomega.Expect(second).To(gomega.Equal(first))
		})
	})
})
