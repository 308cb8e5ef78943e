// Package layout implements a force-directed (spring embedder) layout for
// Petri nets. Arcs behave as springs pulling connected nodes toward a rest
// length while every node pair repels, and an iterative integrator with
// damping and a cooling temperature settles the graph into a readable
// arrangement. The engine is restartable and every parameter can be
// adjusted between ticks, so an interactive shell can re-tune it live
// while the user drags nodes.
package layout

import (
	"context"
	"math"

	"github.com/procnet-xyz/go-procnet/petri"
)

// Config holds the tunable simulation parameters.
type Config struct {
	SpringConstant float64 // attraction strength along arcs
	RepulsionForce float64 // pairwise repulsion strength
	Damping        float64 // velocity decay per tick, in [0,1]
	MinDistance    float64 // distance floor for force computation
	Temperature    float64 // max displacement per tick
	CoolingFactor  float64 // per-iteration temperature decay, in (0,1]
	Timestep       float64 // integration dt for RunFull
	MaxIterations  int     // iteration cap for RunFull
	Gravity        float64 // pull toward the node centroid, scaled by temperature
	Threshold      float64 // total displacement below which RunFull stops
}

// DefaultConfig returns the stock parameters. They keep a few dozen nodes
// stable and settle small nets well inside MaxIterations.
func DefaultConfig() Config {
	return Config{
		SpringConstant: 0.1,
		RepulsionForce: 500.0,
		Damping:        0.85,
		MinDistance:    100.0,
		Temperature:    30.0,
		CoolingFactor:  0.95,
		Timestep:       0.5,
		MaxIterations:  100,
		Gravity:        0.02,
		Threshold:      0.5,
	}
}

// tempFloor keeps the cooled temperature from reaching zero, which would
// lock the simulation permanently.
const tempFloor = 0.01

type vec struct{ x, y float64 }

// Engine runs the simulation over a shared net. It owns no goroutines:
// ticks are driven by an external loop on the same logical thread as any
// user mutations, so no locking is needed.
type Engine struct {
	cfg    Config
	pinned map[int]bool
}

// New creates an engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg, pinned: make(map[int]bool)}
}

// Config returns the current configuration.
func (e *Engine) Config() Config { return e.cfg }

// SetConfig replaces the configuration. Takes effect on the next tick; no
// restart is required.
func (e *Engine) SetConfig(cfg Config) { e.cfg = cfg }

// Pin fixes a node in place, e.g. while the user drags it. A pinned node
// still repels and attracts its neighbors but receives no velocity or
// position updates of its own.
func (e *Engine) Pin(id int) { e.pinned[id] = true }

// Unpin releases a pinned node.
func (e *Engine) Unpin(id int) {
	delete(e.pinned, id)
}

// Pinned reports whether the node is currently pinned.
func (e *Engine) Pinned(id int) bool { return e.pinned[id] }

// Reset zeroes every node velocity and clears pins, restarting the
// simulation from the current positions.
func (e *Engine) Reset(net *petri.Net) {
	e.pinned = make(map[int]bool)
	for _, n := range net.Nodes {
		n.VX, n.VY = 0, 0
	}
}

// Step advances the simulation by exactly one tick, mutating node
// positions and velocities in place. Returns the total displacement
// applied, which callers can use as a convergence signal.
func (e *Engine) Step(net *petri.Net, dt float64) float64 {
	return e.step(net, dt, e.cfg.Temperature)
}

// RunFull iterates Step with a decaying temperature until the movement
// drops below Threshold, MaxIterations is reached, or ctx is cancelled
// between iterations. Returns the number of iterations performed.
func (e *Engine) RunFull(ctx context.Context, net *petri.Net) int {
	temp := e.cfg.Temperature
	for i := 0; i < e.cfg.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return i
		default:
		}
		moved := e.step(net, e.cfg.Timestep, temp)
		temp = math.Max(temp*e.cfg.CoolingFactor, tempFloor)
		if moved < e.cfg.Threshold {
			return i + 1
		}
	}
	return e.cfg.MaxIterations
}

// step is the classic two-phase update: accumulate all forces against a
// snapshot of positions, then integrate. The phases stay separate so a
// future parallel force pass would not observe partial position writes.
func (e *Engine) step(net *petri.Net, dt, temperature float64) float64 {
	nodes := net.Nodes
	if len(nodes) < 2 {
		return 0
	}

	forces := make(map[int]vec, len(nodes))
	for _, n := range nodes {
		forces[n.ID] = vec{}
	}

	e.repulsion(nodes, forces)
	e.attraction(net, forces)
	if e.cfg.Gravity > 0 {
		e.gravity(nodes, forces, temperature)
	}

	return e.integrate(nodes, forces, dt, temperature)
}

// repulsion pushes every unordered node pair apart, inversely proportional
// to squared distance. Distances are floored at MinDistance so coincident
// nodes never divide by zero; exactly coincident pairs separate along a
// deterministic per-pair direction.
func (e *Engine) repulsion(nodes []*petri.Node, forces map[int]vec) {
	minDist := math.Max(e.cfg.MinDistance, 1e-6)
	for i, a := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			b := nodes[j]
			dx := a.X - b.X
			dy := a.Y - b.Y
			dist := math.Hypot(dx, dy)
			if dist < 1e-9 {
				// Coincident: pick a direction from the pair ids so the
				// split is stable across ticks.
				angle := float64(a.ID*31+b.ID) * 0.618
				dx, dy = math.Cos(angle), math.Sin(angle)
				dist = 1
			}
			ux, uy := dx/dist, dy/dist
			force := e.cfg.RepulsionForce / (math.Max(dist, minDist) * math.Max(dist, minDist))

			fa := forces[a.ID]
			fa.x += ux * force
			fa.y += uy * force
			forces[a.ID] = fa

			fb := forces[b.ID]
			fb.x -= ux * force
			fb.y -= uy * force
			forces[b.ID] = fb
		}
	}
}

// attraction pulls each arc's endpoints toward the spring rest length.
// Arcs whose endpoints do not resolve are skipped: a loaded net may be
// malformed and must not crash the tick.
func (e *Engine) attraction(net *petri.Net, forces map[int]vec) {
	restLength := e.cfg.MinDistance * 1.5
	for _, arc := range net.Arcs {
		src := net.Node(arc.Source)
		dst := net.Node(arc.Target)
		if src == nil || dst == nil {
			continue
		}
		dx := dst.X - src.X
		dy := dst.Y - src.Y
		dist := math.Hypot(dx, dy)
		if dist < 1e-9 {
			continue
		}
		ux, uy := dx/dist, dy/dist
		force := e.cfg.SpringConstant * (dist - restLength)

		fs := forces[src.ID]
		fs.x += ux * force
		fs.y += uy * force
		forces[src.ID] = fs

		fd := forces[dst.ID]
		fd.x -= ux * force
		fd.y -= uy * force
		forces[dst.ID] = fd
	}
}

// gravity applies a slight pull toward the node centroid, scaled by the
// current temperature, so disconnected components do not drift apart
// forever.
func (e *Engine) gravity(nodes []*petri.Node, forces map[int]vec, temperature float64) {
	var cx, cy float64
	for _, n := range nodes {
		cx += n.X
		cy += n.Y
	}
	cx /= float64(len(nodes))
	cy /= float64(len(nodes))

	g := e.cfg.Gravity * temperature
	for _, n := range nodes {
		f := forces[n.ID]
		f.x += (cx - n.X) * g
		f.y += (cy - n.Y) * g
		forces[n.ID] = f
	}
}

// integrate folds forces into velocities and velocities into positions,
// clamping per-tick displacement to the temperature. Pinned nodes are
// left untouched.
func (e *Engine) integrate(nodes []*petri.Node, forces map[int]vec, dt, temperature float64) float64 {
	total := 0.0
	for _, n := range nodes {
		if e.pinned[n.ID] {
			n.VX, n.VY = 0, 0
			continue
		}
		f := forces[n.ID]
		n.VX = (n.VX + f.x*dt) * e.cfg.Damping
		n.VY = (n.VY + f.y*dt) * e.cfg.Damping

		dx := n.VX * dt
		dy := n.VY * dt
		disp := math.Hypot(dx, dy)
		if disp > temperature && disp > 0 {
			scale := temperature / disp
			dx *= scale
			dy *= scale
			disp = temperature
		}
		if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
			n.VX, n.VY = 0, 0
			continue
		}
		n.X += dx
		n.Y += dy
		total += disp
	}
	return total
}
