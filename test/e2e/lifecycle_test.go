//go:build integration

package e2e

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/netforge/internal/cidr"
	"github.com/imamik/netforge/internal/config"
	"github.com/imamik/netforge/internal/convergence"
	"github.com/imamik/netforge/internal/platform/ec2"
	"github.com/imamik/netforge/internal/topology"
)

// converge plans against the provider's current state and applies the
// resulting actions, returning the plan and the result.
func converge(ctx context.Context, engine *convergence.Engine, spec *config.Spec, graph *topology.Graph) ([]convergence.Action, *convergence.Result) {
	observed, err := engine.Refresh(ctx, spec.ID())
	Expect(err).NotTo(HaveOccurred())

	actions, err := convergence.Plan(graph, observed)
	Expect(err).NotTo(HaveOccurred())

	return actions, engine.Apply(ctx, actions)
}

func buildGraph(spec *config.Spec) *topology.Graph {
	alloc, err := cidr.Allocate(spec.TopBlock, len(spec.Zones))
	Expect(err).NotTo(HaveOccurred())
	graph, err := topology.Build(spec, alloc)
	Expect(err).NotTo(HaveOccurred())
	return graph
}

var _ = Describe("Topology lifecycle", func() {
	var (
		ctx    context.Context
		mock   *ec2.Mock
		engine *convergence.Engine
		spec   *config.Spec
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = ec2.NewMock()
		engine = convergence.New(mock,
			convergence.WithConcurrency(3),
			convergence.WithRetry(2, time.Millisecond),
		)
		spec = &config.Spec{
			NamePrefix: "e2e",
			TopBlock:   "10.64.0.0/16",
			Zones:      []string{"eu-central-1a", "eu-central-1b"},
			NATMode:    config.NATModeSingle,
			Tags:       map[string]string{"env": "test"},
		}
		spec.ApplyDefaults()
		Expect(spec.Validate()).To(Succeed())
	})

	It("creates the full topology on first apply", func() {
		actions, result := converge(ctx, engine, spec, buildGraph(spec))

		// 2 zones, single NAT: network, igw, 4 subnets, 1 nat,
		// 2 route tables, 4 associations.
		Expect(actions).To(HaveLen(12))
		Expect(result.Ok()).To(BeTrue())
		Expect(mock.Len()).To(Equal(12))
	})

	It("converges to a no-op on the second apply", func() {
		_, result := converge(ctx, engine, spec, buildGraph(spec))
		Expect(result.Ok()).To(BeTrue())

		actions, result := converge(ctx, engine, spec, buildGraph(spec))
		Expect(actions).To(BeEmpty())
		Expect(result.Ok()).To(BeTrue())
	})

	It("recreates a resource deleted out of band", func() {
		_, result := converge(ctx, engine, spec, buildGraph(spec))
		Expect(result.Ok()).To(BeTrue())

		nat := topology.ID{Kind: topology.KindNATGateway, Name: "e2e-nat-1"}
		Expect(mock.Delete(ctx, &topology.Node{ID: nat})).To(Succeed())

		actions, result := converge(ctx, engine, spec, buildGraph(spec))
		Expect(result.Ok()).To(BeTrue())
		Expect(actions).To(HaveLen(1))
		Expect(actions[0].Op).To(Equal(convergence.OpCreate))
		Expect(actions[0].Node.ID).To(Equal(nat))
	})

	It("destroys extra resources when the spec shrinks", func() {
		spec.NATMode = config.NATModePerZone
		_, result := converge(ctx, engine, spec, buildGraph(spec))
		Expect(result.Ok()).To(BeTrue())
		Expect(mock.Len()).To(Equal(14))

		spec.NATMode = config.NATModeSingle
		_, result = converge(ctx, engine, spec, buildGraph(spec))
		Expect(result.Ok()).To(BeTrue())
		Expect(mock.Len()).To(Equal(12))

		gone := topology.ID{Kind: topology.KindNATGateway, Name: "e2e-nat-2"}
		Expect(mock.Node(gone)).To(BeNil())
	})

	It("tears everything down in reverse dependency order", func() {
		_, result := converge(ctx, engine, spec, buildGraph(spec))
		Expect(result.Ok()).To(BeTrue())

		mock.Calls = nil
		_, result = converge(ctx, engine, spec, topology.NewGraph())
		Expect(result.Ok()).To(BeTrue())
		Expect(mock.Len()).To(BeZero())

		// The network must outlive every dependent resource.
		Expect(mock.Calls[len(mock.Calls)-1]).To(Equal("delete network/e2e"))
	})

	It("isolates topologies by prefix", func() {
		_, result := converge(ctx, engine, spec, buildGraph(spec))
		Expect(result.Ok()).To(BeTrue())

		other := &config.Spec{
			NamePrefix: "other",
			TopBlock:   "10.65.0.0/16",
			Zones:      []string{"eu-central-1a"},
		}
		other.ApplyDefaults()
		Expect(other.Validate()).To(Succeed())

		observed, err := engine.Refresh(ctx, other.ID())
		Expect(err).NotTo(HaveOccurred())
		Expect(observed.Len()).To(BeZero())
	})
})
