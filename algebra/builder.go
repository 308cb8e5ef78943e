package algebra

import (
	"fmt"

	"github.com/procnet-xyz/go-procnet/petri"
)

// Layout seeds for freshly created nodes. The spring embedder owns final
// positions; these only keep a new net from starting fully degenerate.
const (
	seedX       = 100.0
	seedStride  = 150.0
	seedRowGap  = 150.0
	seedBranchY = 80.0
)

// SilentName labels transitions inserted by the translator that carry no
// action of their own, e.g. a reference between two named places.
const SilentName = "τ"

// frame is the entry/exit place pair a translated definition exposes for
// composition (one-in/one-out discipline).
type frame struct {
	entry int
	exit  int
}

// Builder translates a parsed Program into a Petri net.
type Builder struct {
	net   *petri.Net
	prog  *Program
	procs map[string]frame
	row   int
}

// Build translates prog into a fresh Petri net. Every process definition
// becomes its own subgraph whose entry place is marked as a process place
// holding one token; the MAIN expression, if any, grows from an anonymous
// one-token root place. Recursive references arc back into the referenced
// definition's entry place, so the resulting graph may contain cycles.
func Build(prog *Program) (*petri.Net, error) {
	b := &Builder{
		net:   petri.NewNet(),
		prog:  prog,
		procs: make(map[string]frame),
	}

	for _, def := range prog.Definitions {
		if err := b.definition(def); err != nil {
			return nil, err
		}
	}

	if prog.Main != nil {
		root := b.net.AddPlace("", 1, seedX, b.nextRowY())
		if _, err := b.expr(prog.Main, root.ID, ""); err != nil {
			return nil, err
		}
	}

	b.prune()
	return b.net, nil
}

// definition translates one process definition, memoizing its frame before
// descending into the body so direct and mutual recursion terminate.
func (b *Builder) definition(def *Definition) error {
	if _, done := b.procs[def.Name]; done {
		return nil
	}

	y := b.nextRowY()
	entry := b.net.AddPlace(def.Name, 1, seedX, y)
	entry.IsProcess = true
	entry.Process = def.Name
	exit := b.net.AddPlace("", 0, seedX+seedStride, y)
	exit.Process = def.Name
	b.procs[def.Name] = frame{entry: entry.ID, exit: exit.ID}

	bodyExit, err := b.expr(def.Body, entry.ID, def.Name)
	if err != nil {
		return err
	}
	kept := b.joinPlaces(exit.ID, bodyExit)
	b.procs[def.Name] = frame{entry: entry.ID, exit: kept}
	return nil
}

// expr translates e starting from the entry place and returns the exit
// place id the translation exposes.
func (b *Builder) expr(e Expr, entry int, proc string) (int, error) {
	switch n := e.(type) {
	case *Action:
		return b.action(n.Name, entry, proc), nil

	case *Sequence:
		mid, err := b.expr(n.Left, entry, proc)
		if err != nil {
			return 0, err
		}
		return b.expr(n.Right, mid, proc)

	case *Choice:
		// Both branches fan out from the shared entry and fan back into
		// one shared exit, modeling nondeterministic choice without
		// creating extra tokens.
		leftExit, err := b.expr(n.Left, entry, proc)
		if err != nil {
			return 0, err
		}
		rightExit, err := b.expr(n.Right, entry, proc)
		if err != nil {
			return 0, err
		}
		return b.joinPlaces(leftExit, rightExit), nil

	case *Parallel:
		// True concurrency: the right branch shares no places with the
		// left. It grows from its own one-token root so both sides can
		// proceed independently; there is no synchronizing join in this
		// minimal algebra.
		leftExit, err := b.expr(n.Left, entry, proc)
		if err != nil {
			return 0, err
		}
		root := b.net.AddPlace("", 1, seedX, b.nextRowY())
		root.Process = proc
		if _, err := b.expr(n.Right, root.ID, proc); err != nil {
			return 0, err
		}
		return leftExit, nil

	case *Ref:
		return b.reference(n, entry)

	case *Stop:
		// Terminal: no outgoing transitions. An anonymous entry place is
		// labeled in place; a named or process entry keeps its marking
		// and reaches a fresh terminal place through a silent transition.
		node := b.net.Node(entry)
		if node != nil && node.Name == "" && !node.IsProcess {
			node.Name = "STOP"
			return entry, nil
		}
		x, y := seedX, seedX
		if node != nil {
			x, y = node.X+seedStride, node.Y
		}
		stop := b.net.AddPlace("STOP", 0, x, y)
		stop.Process = proc
		b.silent(entry, stop.ID)
		return stop.ID, nil

	default:
		return 0, fmt.Errorf("algebra: unknown expression node %T", e)
	}
}

// action frames a single transition between the entry place and a fresh
// exit place.
func (b *Builder) action(name string, entry int, proc string) int {
	from := b.net.Node(entry)
	x, y := seedX, float64(b.row)*seedRowGap+seedX
	if from != nil {
		x, y = from.X, from.Y
	}
	t := b.net.AddTransition(name, x+seedStride/2, y)
	t.Process = proc
	exit := b.net.AddPlace("", 0, x+seedStride, y)
	exit.Process = proc
	b.net.AddArc(entry, t.ID)
	b.net.AddArc(t.ID, exit.ID)
	return exit.ID
}

// reference transfers control into the referenced definition's entry
// place. The local entry is merged into the target entry, which is what
// turns a self-reference into a cycle back to the same place. When both
// places are significant (named or process-marked) a silent transition
// links them instead, so neither marking is lost.
func (b *Builder) reference(ref *Ref, entry int) (int, error) {
	def := b.prog.Definition(ref.Name)
	if def == nil {
		return 0, &ReferenceError{Name: ref.Name}
	}
	if err := b.definition(def); err != nil {
		return 0, err
	}
	fr := b.procs[ref.Name]

	if entry == fr.entry {
		// Degenerate self reference (P = P): a silent self-loop.
		b.silent(entry, fr.entry)
		return fr.exit, nil
	}

	from := b.net.Node(entry)
	if from != nil && (from.IsProcess || from.Name != "") {
		b.silent(entry, fr.entry)
		return fr.exit, nil
	}

	b.net.MergePlaces(fr.entry, entry)
	return fr.exit, nil
}

func (b *Builder) silent(from, to int) {
	src := b.net.Node(from)
	x, y := seedX, seedX
	if src != nil {
		x, y = src.X+seedStride/2, src.Y
	}
	t := b.net.AddTransition(SilentName, x, y)
	if src != nil {
		t.Process = src.Process
	}
	b.net.AddArc(from, t.ID)
	b.net.AddArc(t.ID, to)
}

// joinPlaces merges two exit places into one, preferring to keep the more
// significant of the two (process-marked, then named) so choice branches
// ending in STOP or a reference keep their labels.
func (b *Builder) joinPlaces(a, c int) int {
	if a == c {
		return a
	}
	na, nc := b.net.Node(a), b.net.Node(c)
	if na == nil {
		return c
	}
	if nc == nil {
		return a
	}
	keep, drop := a, c
	if (nc.IsProcess && !na.IsProcess) || (nc.Name != "" && na.Name == "" && !na.IsProcess) {
		keep, drop = c, a
	}
	b.net.MergePlaces(keep, drop)
	return keep
}

// prune removes everything unreachable from a marked or process place:
// the arcless pre-created exit of a definition that only ever recurses,
// and any continuation built after a reference that never returns, such
// as the trailing b in P = a.P.b. No token can ever reach such a
// subgraph, and the exported algebra has no way to express it.
func (b *Builder) prune() {
	reachable := make(map[int]bool, len(b.net.Nodes))
	var stack []int
	for _, node := range b.net.Nodes {
		if node.IsPlace() && (node.Tokens > 0 || node.IsProcess) {
			reachable[node.ID] = true
			stack = append(stack, node.ID)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, a := range b.net.OutputArcs(id) {
			if !reachable[a.Target] {
				reachable[a.Target] = true
				stack = append(stack, a.Target)
			}
		}
	}

	var drop []int
	for _, node := range b.net.Nodes {
		if !reachable[node.ID] {
			drop = append(drop, node.ID)
		}
	}
	for _, id := range drop {
		b.net.RemoveNode(id)
	}
}

func (b *Builder) nextRowY() float64 {
	y := seedX + float64(b.row)*seedRowGap
	b.row++
	return y
}
