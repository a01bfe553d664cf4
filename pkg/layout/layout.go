package layout

import (
	"math"

	"sage/pkg/common"
)

// Config tunes the force simulation. Zero values fall back to defaults
// that behave well for graphs of a few dozen nodes.
type Config struct {
	RowHeight      float64 // vertical distance between levels
	LinkDistance   float64 // target length of an edge spring
	Repulsion      float64 // pairwise repulsion strength
	LevelStrength  float64 // pull toward the level's row
	CenterStrength float64 // weak horizontal centering
	NodeRadius     float64 // collision radius of a node
	CollidePadding float64 // extra separation between node circles
	VelocityDecay  float64 // per-tick velocity damping factor
	AlphaDecay     float64 // per-tick cooling factor
	AlphaMin       float64 // simulation counts as settled below this
}

func (c Config) withDefaults() Config {
	if c.RowHeight <= 0 {
		c.RowHeight = 110
	}
	if c.LinkDistance <= 0 {
		c.LinkDistance = 90
	}
	if c.Repulsion <= 0 {
		c.Repulsion = 2600
	}
	if c.LevelStrength <= 0 {
		c.LevelStrength = 0.35
	}
	if c.CenterStrength <= 0 {
		c.CenterStrength = 0.03
	}
	if c.NodeRadius <= 0 {
		c.NodeRadius = 28
	}
	if c.CollidePadding <= 0 {
		c.CollidePadding = 6
	}
	if c.VelocityDecay <= 0 {
		c.VelocityDecay = 0.6
	}
	if c.AlphaDecay <= 0 {
		c.AlphaDecay = 0.028
	}
	if c.AlphaMin <= 0 {
		c.AlphaMin = 0.001
	}
	return c
}

// Position is the output of the simulation for one node.
type Position struct {
	ID    string          `json:"id"`
	Kind  common.NodeKind `json:"kind"`
	Level int             `json:"level"`
	X     float64         `json:"x"`
	Y     float64         `json:"y"`
}

// Transform fits the whole graph into a viewport: scale first, then
// translate.
type Transform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
}

type simNode struct {
	id     string
	kind   common.NodeKind
	level  int
	x, y   float64
	vx, vy float64
	pinned bool // dragged by the user; excluded from forces
}

type simLink struct {
	source *simNode
	target *simNode
}

// Simulator runs a force-constrained layout for one render pass. It is
// driven cooperatively: the host calls Tick (or Run) and reads Positions
// whenever it wants to draw. Every node has a valid position at every
// tick, so a simulation that never fully settles is still renderable.
//
// Simulator is not safe for concurrent use; one drag at a time.
type Simulator struct {
	cfg   Config
	nodes []*simNode
	index map[string]*simNode
	links []simLink
	alpha float64
}

// NewSimulator seeds a simulator from nodes, edges, and the level map
// produced by AssignLevels. Initial positions are deterministic: nodes
// fan out horizontally per level, rows sit at level × RowHeight. Edges
// with an endpoint missing from the node set carry no spring force but
// are otherwise harmless.
func NewSimulator(nodes []common.Node, edges []common.Edge, levels map[string]int, cfg Config) *Simulator {
	cfg = cfg.withDefaults()

	s := &Simulator{
		cfg:   cfg,
		index: make(map[string]*simNode, len(nodes)),
		alpha: 1,
	}

	perLevel := make(map[int]int)
	for _, n := range nodes {
		level := levels[n.ID]
		slot := perLevel[level]
		perLevel[level]++

		sn := &simNode{
			id:    n.ID,
			kind:  n.Kind,
			level: level,
			// alternate slots left and right of the column center
			x: float64(slot+1) / 2 * cfg.LinkDistance * sign(slot),
			y: float64(level) * cfg.RowHeight,
		}
		s.nodes = append(s.nodes, sn)
		s.index[n.ID] = sn
	}

	for _, e := range edges {
		source, ok := s.index[e.From]
		if !ok {
			continue
		}
		target, ok := s.index[e.To]
		if !ok {
			continue
		}
		if source == target {
			continue
		}
		s.links = append(s.links, simLink{source: source, target: target})
	}

	return s
}

func sign(slot int) float64 {
	if slot%2 == 1 {
		return -1
	}
	return 1
}

// Alpha returns the current cooling value.
func (s *Simulator) Alpha() float64 { return s.alpha }

// Settled reports whether the simulation has cooled below AlphaMin.
func (s *Simulator) Settled() bool { return s.alpha < s.cfg.AlphaMin }

// Tick advances the simulation one step. Pairwise forces make a tick
// O(n²); graphs here are tens of nodes, so ticks stay cheap.
func (s *Simulator) Tick() {
	if len(s.nodes) == 0 {
		return
	}

	s.applyRepulsion()
	s.applySprings()
	s.applyConstraints()
	s.integrate()
	s.resolveCollisions()

	s.alpha += (0 - s.alpha) * s.cfg.AlphaDecay
}

// Run ticks until the simulation settles or maxTicks elapse. Partial
// convergence is fine; positions are valid either way.
func (s *Simulator) Run(maxTicks int) {
	for i := 0; i < maxTicks && !s.Settled(); i++ {
		s.Tick()
	}
}

func (s *Simulator) applyRepulsion() {
	for i := 0; i < len(s.nodes); i++ {
		a := s.nodes[i]
		for j := i + 1; j < len(s.nodes); j++ {
			b := s.nodes[j]

			dx := b.x - a.x
			dy := b.y - a.y
			distSq := dx*dx + dy*dy
			if distSq < 1 {
				// coincident nodes: nudge apart deterministically
				dx, dy = 1, 0.5
				distSq = 1.25
			}

			force := s.cfg.Repulsion * s.alpha / distSq
			dist := math.Sqrt(distSq)
			fx := dx / dist * force
			fy := dy / dist * force

			if !a.pinned {
				a.vx -= fx
				a.vy -= fy
			}
			if !b.pinned {
				b.vx += fx
				b.vy += fy
			}
		}
	}
}

func (s *Simulator) applySprings() {
	for _, l := range s.links {
		dx := l.target.x - l.source.x
		dy := l.target.y - l.source.y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < 1 {
			dist = 1
		}

		displacement := (dist - s.cfg.LinkDistance) / dist * 0.5 * s.alpha
		fx := dx * displacement
		fy := dy * displacement

		if !l.source.pinned {
			l.source.vx += fx
			l.source.vy += fy
		}
		if !l.target.pinned {
			l.target.vx -= fx
			l.target.vy -= fy
		}
	}
}

// applyConstraints pins each node vertically to its level row and weakly
// centers it horizontally, biasing the layered flowchart look.
func (s *Simulator) applyConstraints() {
	for _, n := range s.nodes {
		if n.pinned {
			continue
		}
		targetY := float64(n.level) * s.cfg.RowHeight
		n.vy += (targetY - n.y) * s.cfg.LevelStrength * s.alpha
		n.vx += (0 - n.x) * s.cfg.CenterStrength * s.alpha
	}
}

func (s *Simulator) integrate() {
	for _, n := range s.nodes {
		if n.pinned {
			n.vx, n.vy = 0, 0
			continue
		}
		n.vx *= s.cfg.VelocityDecay
		n.vy *= s.cfg.VelocityDecay
		n.x += n.vx
		n.y += n.vy
	}
}

// resolveCollisions separates overlapping node circles with a direct
// positional correction, split between both nodes unless one is pinned.
func (s *Simulator) resolveCollisions() {
	minDist := 2*s.cfg.NodeRadius + s.cfg.CollidePadding
	for i := 0; i < len(s.nodes); i++ {
		a := s.nodes[i]
		for j := i + 1; j < len(s.nodes); j++ {
			b := s.nodes[j]

			dx := b.x - a.x
			dy := b.y - a.y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist >= minDist {
				continue
			}
			if dist < 1 {
				dx, dy, dist = 1, 0, 1
			}

			overlap := (minDist - dist) / dist
			switch {
			case a.pinned && b.pinned:
				// both held by the user is impossible (one drag at a
				// time), but don't move pinned nodes regardless
			case a.pinned:
				b.x += dx * overlap
				b.y += dy * overlap
			case b.pinned:
				a.x -= dx * overlap
				a.y -= dy * overlap
			default:
				a.x -= dx * overlap * 0.5
				a.y -= dy * overlap * 0.5
				b.x += dx * overlap * 0.5
				b.y += dy * overlap * 0.5
			}
		}
	}
}

// Drag pins the node to the pointer position and reheats the simulation
// so its neighbours adjust. Returns false for an unknown id.
func (s *Simulator) Drag(id string, x, y float64) bool {
	n, ok := s.index[id]
	if !ok {
		return false
	}
	n.pinned = true
	n.x, n.y = x, y
	n.vx, n.vy = 0, 0
	if s.alpha < 0.3 {
		s.alpha = 0.3
	}
	return true
}

// Release lets a dragged node rejoin the simulation.
func (s *Simulator) Release(id string) {
	if n, ok := s.index[id]; ok {
		n.pinned = false
	}
}

// Positions snapshots the current coordinates in node input order.
func (s *Simulator) Positions() []Position {
	out := make([]Position, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = Position{
			ID:    n.id,
			Kind:  n.kind,
			Level: n.level,
			X:     n.x,
			Y:     n.y,
		}
	}
	return out
}

const (
	fitPadding = 40.0
	minScale   = 0.4
	maxScale   = 2.0
)

// FitTransform computes the scale and translation that fit the bounding
// box of all node positions into a viewport with fixed padding. The scale
// is clamped so sparse graphs don't balloon and dense graphs don't vanish.
func (s *Simulator) FitTransform(width, height float64) Transform {
	if len(s.nodes) == 0 || width <= 0 || height <= 0 {
		return Transform{Scale: 1}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range s.nodes {
		minX = math.Min(minX, n.x-s.cfg.NodeRadius)
		minY = math.Min(minY, n.y-s.cfg.NodeRadius)
		maxX = math.Max(maxX, n.x+s.cfg.NodeRadius)
		maxY = math.Max(maxY, n.y+s.cfg.NodeRadius)
	}

	boxW := maxX - minX
	boxH := maxY - minY

	scale := math.Min(
		(width-2*fitPadding)/boxW,
		(height-2*fitPadding)/boxH,
	)
	if math.IsInf(scale, 0) || math.IsNaN(scale) || scale > maxScale {
		scale = maxScale
	}
	if scale < minScale {
		scale = minScale
	}

	centerX := (minX + maxX) / 2
	centerY := (minY + maxY) / 2

	return Transform{
		Scale:      scale,
		TranslateX: width/2 - centerX*scale,
		TranslateY: height/2 - centerY*scale,
	}
}
