package ds_test

import (
	"fmt"

	"github.com/matzehuels/dsanim/pkg/ds"
	"github.com/matzehuels/dsanim/pkg/geom"
	"github.com/matzehuels/dsanim/pkg/scene"
)

func ExampleArray() {
	a, _ := ds.NewArray([]any{1, 2, 3})
	_ = a.AddIndexes(geom.Down, ds.DefaultIndexBuffer, scene.DefaultIndex)
	a.Append(4)
	_ = a.Pop(0)

	for _, e := range a.Elements() {
		fmt.Printf("%s@%s ", e.Value(), e.Index().Content)
	}
	fmt.Println()
	// Output: 2@0 3@1 4@2
}

func ExampleStack_AnimateAppend() {
	s, _ := ds.NewStack(nil)
	_, push := s.AnimateAppend("a")
	pop := s.AnimatePop()

	fmt.Println(push.Kind, push.Duration())
	fmt.Println(pop.Kind, s.Len())
	// Output:
	// sequence 2
	// sequence 0
}

func ExampleGraph_ShowBackwardEdge() {
	g, _ := ds.NewGraph([]ds.AdjacencyList{
		{Node: "a", Neighbors: []ds.Neighbor{{Node: "b", Weight: 5}}},
	}, map[string]geom.Vec{"b": geom.V(3, 0)})

	shared, _ := g.AddEdge("b", "a")
	fmt.Println(len(g.Edges()), shared.Arrow())

	fwd, bwd, _ := g.ShowBackwardEdge("a", "b", 5, 2)
	fmt.Println(len(g.Edges()), fwd.Weight().Content, bwd.Weight().Content)
	// Output:
	// 1 false
	// 2 5 2
}
