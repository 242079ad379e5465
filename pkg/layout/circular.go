package layout

import (
	"context"
	"math"

	"github.com/matzehuels/dsanim/pkg/geom"
)

// Circular places nodes evenly on the unit circle in the order given,
// starting at angle zero. A single node sits on the origin.
type Circular struct{}

func (Circular) Name() string { return "circular" }

func (Circular) Layout(ctx context.Context, nodes []string, _ []Edge) (Positions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pos := make(Positions, len(nodes))
	if len(nodes) == 1 {
		pos[nodes[0]] = geom.Origin
		return pos, nil
	}
	step := 2 * math.Pi / float64(len(nodes))
	for i, n := range nodes {
		pos[n] = geom.Polar(float64(i) * step)
	}
	return pos, nil
}
