package algebra

import (
	"fmt"
	"strings"

	"github.com/procnet-xyz/go-procnet/petri"
)

// Export reconstructs process-algebra source from a net. For every graph
// produced by Build, parsing and rebuilding the exported text yields a net
// with the same place/transition counts and arc topology up to id
// relabeling. For loaded or hand-edited graphs the result is best effort.
//
// Structural assumptions: each transition has exactly one outgoing place
// arc (extra ones are ignored, a missing one ends the sequence), and
// cycles re-enter the graph at process places. Places where several
// branches converge are promoted to synthetic definitions (X<id>) so the
// shared suffix is emitted once instead of being duplicated per branch.
func Export(net *petri.Net) string {
	e := &exporter{
		net:      net,
		promoted: make(map[int]string),
		names:    make(map[string]bool),
	}
	return e.run()
}

type exporter struct {
	net      *petri.Net
	promoted map[int]string // join place id -> synthetic definition name
	names    map[string]bool
	pending  []int
}

func (e *exporter) run() string {
	for _, p := range e.net.Places() {
		if p.IsProcess {
			e.names[p.Name] = true
		}
	}

	// Promote join places up front: a branch re-converging on one of these
	// must reference it by name rather than inline its continuation.
	for _, p := range e.net.Places() {
		if p.IsProcess {
			continue
		}
		if e.incomingTransitions(p.ID) >= 2 && len(e.net.OutputArcs(p.ID)) >= 1 {
			e.promote(p.ID)
		}
	}

	var lines []string
	for _, p := range e.net.Places() {
		if !p.IsProcess {
			continue
		}
		body := e.body(p.ID)
		lines = append(lines, fmt.Sprintf("%s = %s", p.Name, body))
	}

	// Anonymous token-bearing roots are the parallel branches of the MAIN
	// expression. Walk them before flushing synthetic definitions: the
	// walk itself may promote a place on an unexpected cycle.
	var roots []string
	for _, p := range e.net.Places() {
		if p.IsProcess || p.Tokens == 0 || len(e.net.InputArcs(p.ID)) > 0 {
			continue
		}
		if _, isJoin := e.promoted[p.ID]; isJoin {
			continue
		}
		if text := e.walkText(p.ID); text != "" {
			roots = append(roots, text)
		}
	}

	// Flush synthetic definitions, including any promoted lazily above.
	for i := 0; i < len(e.pending); i++ {
		id := e.pending[i]
		lines = append(lines, fmt.Sprintf("%s = %s", e.promoted[id], e.body(id)))
	}

	if len(roots) > 0 {
		lines = append(lines, strings.Join(roots, " | "))
	}

	return strings.Join(lines, "\n")
}

// body renders the expression a place's outgoing transitions encode,
// yielding STOP for a terminal place.
func (e *exporter) body(id int) string {
	text := e.walkText(id)
	if text == "" {
		return "STOP"
	}
	return text
}

func (e *exporter) walkText(id int) string {
	text, _ := e.walk(id, map[int]bool{id: true})
	return text
}

// walk renders the continuation from a place. The second result reports
// whether the text is a top-level choice, which a sequence context must
// parenthesize.
func (e *exporter) walk(id int, visiting map[int]bool) (string, bool) {
	var branches []string
	for _, arc := range e.net.OutputArcs(id) {
		t := e.net.Node(arc.Target)
		if t == nil || !t.IsTransition() {
			continue
		}
		branches = append(branches, e.branch(t, visiting))
	}
	if len(branches) == 0 {
		node := e.net.Node(id)
		if node != nil && node.Name == "STOP" {
			return "STOP", false
		}
		return "", false
	}
	return strings.Join(branches, " + "), len(branches) > 1
}

// branch renders one transition and its continuation.
func (e *exporter) branch(t *petri.Node, visiting map[int]bool) string {
	head := t.Name
	next := e.nextPlace(t.ID)
	if next == nil {
		return head
	}

	var tail string
	switch {
	case next.IsProcess:
		tail = next.Name
	case e.promoted[next.ID] != "":
		tail = e.promoted[next.ID]
	case visiting[next.ID]:
		// A cycle through an anonymous place: only possible in edited
		// graphs. Promote it so the walk terminates.
		tail = e.promote(next.ID)
	default:
		visiting[next.ID] = true
		inner, isChoice := e.walk(next.ID, visiting)
		delete(visiting, next.ID)
		if isChoice {
			inner = "(" + inner + ")"
		}
		tail = inner
	}

	if head == SilentName {
		// Silent transitions carry no action; emit only the continuation.
		if tail == "" {
			return "STOP"
		}
		return tail
	}
	if tail == "" {
		return head
	}
	return head + "." + tail
}

func (e *exporter) nextPlace(transitionID int) *petri.Node {
	for _, arc := range e.net.OutputArcs(transitionID) {
		if p := e.net.Node(arc.Target); p != nil && p.IsPlace() {
			return p
		}
	}
	return nil
}

func (e *exporter) incomingTransitions(placeID int) int {
	count := 0
	for _, arc := range e.net.InputArcs(placeID) {
		if t := e.net.Node(arc.Source); t != nil && t.IsTransition() {
			count++
		}
	}
	return count
}

func (e *exporter) promote(id int) string {
	if name, ok := e.promoted[id]; ok {
		return name
	}
	name := fmt.Sprintf("X%d", id)
	for e.names[name] {
		name = "X" + name
	}
	e.names[name] = true
	e.promoted[id] = name
	e.pending = append(e.pending, id)
	return name
}
