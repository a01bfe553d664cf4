package layout

import (
	"math"
	"reflect"
	"testing"

	"sage/pkg/common"
)

func diamondGraph() ([]common.Node, []common.Edge) {
	nodes := []common.Node{
		{ID: "a", Kind: common.NodeKindStep},
		{ID: "b", Kind: common.NodeKindDecision},
		{ID: "c", Kind: common.NodeKindStep},
		{ID: "d", Kind: common.NodeKindTerminal},
	}
	edges := []common.Edge{
		{From: "a", To: "b"},
		{From: "a", To: "c"},
		{From: "b", To: "d"},
		{From: "c", To: "d"},
	}
	return nodes, edges
}

func TestSimulatorDeterministic(t *testing.T) {
	nodes, edges := diamondGraph()
	levels := AssignLevels(nodes, edges)

	first := NewSimulator(nodes, edges, levels, Config{})
	second := NewSimulator(nodes, edges, levels, Config{})
	first.Run(300)
	second.Run(300)

	if !reflect.DeepEqual(first.Positions(), second.Positions()) {
		t.Errorf("identical inputs produced different layouts:\n%v\n%v",
			first.Positions(), second.Positions())
	}
}

func TestSimulatorPositionsAlwaysValid(t *testing.T) {
	nodes, edges := diamondGraph()
	levels := AssignLevels(nodes, edges)
	sim := NewSimulator(nodes, edges, levels, Config{})

	for tick := 0; tick < 50; tick++ {
		for _, p := range sim.Positions() {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				t.Fatalf("tick %d: node %q has invalid position (%v, %v)", tick, p.ID, p.X, p.Y)
			}
		}
		sim.Tick()
	}
}

func TestSimulatorSettles(t *testing.T) {
	nodes, edges := diamondGraph()
	levels := AssignLevels(nodes, edges)
	sim := NewSimulator(nodes, edges, levels, Config{})

	sim.Run(1000)
	if !sim.Settled() {
		t.Errorf("simulation did not settle, alpha = %v", sim.Alpha())
	}
}

func TestSimulatorLevelRows(t *testing.T) {
	nodes, edges := diamondGraph()
	levels := AssignLevels(nodes, edges)
	cfg := Config{RowHeight: 100}
	sim := NewSimulator(nodes, edges, levels, cfg)
	sim.Run(1000)

	// each node should end up near its level's row
	for _, p := range sim.Positions() {
		want := float64(p.Level) * 100
		if math.Abs(p.Y-want) > 50 {
			t.Errorf("node %q at y=%v, want near row %v", p.ID, p.Y, want)
		}
	}
}

func TestSimulatorNodesSeparated(t *testing.T) {
	nodes, edges := diamondGraph()
	levels := AssignLevels(nodes, edges)
	sim := NewSimulator(nodes, edges, levels, Config{})
	sim.Run(1000)

	pos := sim.Positions()
	minDist := 2*sim.cfg.NodeRadius + sim.cfg.CollidePadding
	for i := 0; i < len(pos); i++ {
		for j := i + 1; j < len(pos); j++ {
			dx := pos[j].X - pos[i].X
			dy := pos[j].Y - pos[i].Y
			if dist := math.Sqrt(dx*dx + dy*dy); dist < minDist-1 {
				t.Errorf("nodes %q and %q overlap: dist %v < %v", pos[i].ID, pos[j].ID, dist, minDist)
			}
		}
	}
}

func TestSimulatorDrag(t *testing.T) {
	nodes, edges := diamondGraph()
	levels := AssignLevels(nodes, edges)
	sim := NewSimulator(nodes, edges, levels, Config{})
	sim.Run(1000)

	if sim.Drag("missing", 0, 0) {
		t.Error("Drag accepted an unknown node id")
	}

	if !sim.Drag("b", 500, 500) {
		t.Fatal("Drag rejected a known node id")
	}
	for i := 0; i < 20; i++ {
		sim.Tick()
	}
	for _, p := range sim.Positions() {
		if p.ID == "b" && (p.X != 500 || p.Y != 500) {
			t.Errorf("dragged node moved to (%v, %v), want (500, 500)", p.X, p.Y)
		}
	}

	sim.Release("b")
	sim.Run(1000)
	for _, p := range sim.Positions() {
		if p.ID == "b" && math.Abs(p.Y-500) < 100 {
			t.Errorf("released node stayed at drag position, y = %v", p.Y)
		}
	}
}

func TestSimulatorDanglingEdges(t *testing.T) {
	nodes := []common.Node{{ID: "a"}, {ID: "b"}}
	edges := []common.Edge{
		{From: "a", To: "b"},
		{From: "a", To: "ghost"},
		{From: "ghost", To: "b"},
	}
	levels := AssignLevels(nodes, edges)
	sim := NewSimulator(nodes, edges, levels, Config{})

	if len(sim.links) != 1 {
		t.Errorf("expected 1 spring, got %d", len(sim.links))
	}
	sim.Run(1000)
	if got := len(sim.Positions()); got != 2 {
		t.Errorf("expected 2 positions, got %d", got)
	}
}

func TestFitTransform(t *testing.T) {
	nodes, edges := diamondGraph()
	levels := AssignLevels(nodes, edges)
	sim := NewSimulator(nodes, edges, levels, Config{})
	sim.Run(1000)

	tf := sim.FitTransform(800, 600)
	if tf.Scale < minScale || tf.Scale > maxScale {
		t.Errorf("scale %v outside [%v, %v]", tf.Scale, minScale, maxScale)
	}

	// all transformed positions must land inside the viewport
	for _, p := range sim.Positions() {
		x := p.X*tf.Scale + tf.TranslateX
		y := p.Y*tf.Scale + tf.TranslateY
		if tf.Scale > minScale && (x < 0 || x > 800 || y < 0 || y > 600) {
			t.Errorf("node %q transformed to (%v, %v), outside 800x600", p.ID, x, y)
		}
	}
}

func TestFitTransformEmpty(t *testing.T) {
	sim := NewSimulator(nil, nil, nil, Config{})
	want := Transform{Scale: 1}
	if got := sim.FitTransform(800, 600); got != want {
		t.Errorf("FitTransform() = %v, want %v", got, want)
	}
}

func TestFitTransformSingleNode(t *testing.T) {
	nodes := []common.Node{{ID: "only"}}
	levels := AssignLevels(nodes, nil)
	sim := NewSimulator(nodes, nil, levels, Config{})

	tf := sim.FitTransform(800, 600)
	if tf.Scale != maxScale {
		t.Errorf("single node scale = %v, want clamp at %v", tf.Scale, maxScale)
	}
}
