package algebra

import (
	"errors"
	"testing"

	"github.com/procnet-xyz/go-procnet/petri"
)

func mustBuild(t *testing.T, source string) *petri.Net {
	t.Helper()
	prog, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	net, err := Build(prog)
	if err != nil {
		t.Fatalf("Build(%q) failed: %v", source, err)
	}
	if errs := net.Validate(); len(errs) > 0 {
		t.Fatalf("Build(%q) produced an invalid net: %v", source, errs[0])
	}
	return net
}

func findPlace(t *testing.T, net *petri.Net, name string) *petri.Node {
	t.Helper()
	for _, p := range net.Places() {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("no place named %q", name)
	return nil
}

func findTransition(t *testing.T, net *petri.Net, name string) *petri.Node {
	t.Helper()
	for _, tr := range net.Transitions() {
		if tr.Name == name {
			return tr
		}
	}
	t.Fatalf("no transition named %q", name)
	return nil
}

func hasArc(net *petri.Net, source, target int) bool {
	for _, a := range net.Arcs {
		if a.Source == source && a.Target == target {
			return true
		}
	}
	return false
}

func TestBuildSequenceChoice(t *testing.T) {
	// a.b and c branch from the shared entry and converge on a shared
	// exit place.
	net := mustBuild(t, "P = a.b + c")

	if got := len(net.Places()); got != 3 {
		t.Errorf("expected 3 places, got %d", got)
	}
	if got := len(net.Transitions()); got != 3 {
		t.Errorf("expected 3 transitions, got %d", got)
	}
	if got := len(net.Arcs); got != 6 {
		t.Errorf("expected 6 arcs, got %d", got)
	}

	entry := findPlace(t, net, "P")
	if !entry.IsProcess {
		t.Error("entry place should be marked as a process")
	}
	if entry.Tokens != 1 {
		t.Errorf("entry place should hold 1 token, got %d", entry.Tokens)
	}

	ta := findTransition(t, net, "a")
	tb := findTransition(t, net, "b")
	tc := findTransition(t, net, "c")

	// Both branches start at the entry.
	if !hasArc(net, entry.ID, ta.ID) || !hasArc(net, entry.ID, tc.ID) {
		t.Error("a and c should both consume from the entry place")
	}
	// b and c feed the same exit place.
	bOut := net.OutputArcs(tb.ID)
	cOut := net.OutputArcs(tc.ID)
	if len(bOut) != 1 || len(cOut) != 1 {
		t.Fatalf("b and c should each have one output arc, got %d and %d", len(bOut), len(cOut))
	}
	if bOut[0].Target != cOut[0].Target {
		t.Error("choice branches should converge on one exit place")
	}
}

func TestBuildSelfRecursion(t *testing.T) {
	// P = a.P arcs back into the process entry place.
	net := mustBuild(t, "P = a.P")

	if got := len(net.Places()); got != 1 {
		t.Errorf("expected 1 place, got %d", got)
	}
	if got := len(net.Transitions()); got != 1 {
		t.Errorf("expected 1 transition, got %d", got)
	}

	entry := findPlace(t, net, "P")
	ta := findTransition(t, net, "a")
	if !hasArc(net, entry.ID, ta.ID) || !hasArc(net, ta.ID, entry.ID) {
		t.Error("expected a cycle P -> a -> P")
	}
}

func TestBuildMutualRecursion(t *testing.T) {
	net := mustBuild(t, "P = a.Q\nQ = b.P")

	p := findPlace(t, net, "P")
	q := findPlace(t, net, "Q")
	ta := findTransition(t, net, "a")
	tb := findTransition(t, net, "b")

	if !hasArc(net, p.ID, ta.ID) || !hasArc(net, ta.ID, q.ID) {
		t.Error("expected P -> a -> Q")
	}
	if !hasArc(net, q.ID, tb.ID) || !hasArc(net, tb.ID, p.ID) {
		t.Error("expected Q -> b -> P")
	}
	if got := len(net.Places()); got != 2 {
		t.Errorf("expected 2 places, got %d", got)
	}
}

func TestBuildParallelDisjoint(t *testing.T) {
	// The two sides of '|' share no places: each runs from its own
	// one-token root.
	net := mustBuild(t, "a.b | c")

	roots := 0
	for _, p := range net.Places() {
		if p.Tokens > 0 && len(net.InputArcs(p.ID)) == 0 {
			roots++
		}
	}
	if roots != 2 {
		t.Fatalf("expected 2 token-bearing roots, got %d", roots)
	}

	ta := findTransition(t, net, "a")
	tc := findTransition(t, net, "c")
	aIn := net.InputArcs(ta.ID)
	cIn := net.InputArcs(tc.ID)
	if len(aIn) != 1 || len(cIn) != 1 {
		t.Fatal("a and c should each have one input arc")
	}
	if aIn[0].Source == cIn[0].Source {
		t.Error("parallel branches should not share an entry place")
	}
}

func TestBuildStop(t *testing.T) {
	net := mustBuild(t, "P = a.STOP")

	stop := findPlace(t, net, "STOP")
	if len(net.OutputArcs(stop.ID)) != 0 {
		t.Error("STOP place should have no outgoing arcs")
	}
	ta := findTransition(t, net, "a")
	if !hasArc(net, ta.ID, stop.ID) {
		t.Error("a should lead to the STOP place")
	}
}

func TestBuildStopBranch(t *testing.T) {
	// STOP directly under a choice on the process entry must not merge
	// the terminal place back into the entry.
	net := mustBuild(t, "P = a + STOP")

	entry := findPlace(t, net, "P")
	stop := findPlace(t, net, "STOP")
	if entry.ID == stop.ID {
		t.Fatal("STOP branch must not collapse into the process entry")
	}
	silent := findTransition(t, net, SilentName)
	if !hasArc(net, entry.ID, silent.ID) || !hasArc(net, silent.ID, stop.ID) {
		t.Error("expected a silent transition from the entry to STOP")
	}
}

func TestBuildUndefinedReference(t *testing.T) {
	prog := &Program{
		Definitions: []*Definition{
			{Name: "P", Body: &Ref{Name: "Missing"}},
		},
		byName: map[string]*Definition{},
	}
	prog.byName["P"] = prog.Definitions[0]

	_, err := Build(prog)
	if err == nil {
		t.Fatal("expected an error for an undefined reference")
	}
	var refErr *ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected *ReferenceError, got %T: %v", err, err)
	}
	if refErr.Name != "Missing" {
		t.Errorf("expected name Missing, got %q", refErr.Name)
	}
}

func TestBuildMainReference(t *testing.T) {
	// A bare reference in the main expression merges its root into the
	// process entry, adding a token there.
	net := mustBuild(t, "P = a.P\nP")

	entry := findPlace(t, net, "P")
	if entry.Tokens != 2 {
		t.Errorf("expected 2 tokens on P (definition + main), got %d", entry.Tokens)
	}
}

func TestBuildDropsContinuationAfterRecursion(t *testing.T) {
	// P = a.P.b: the reference back into P never returns, so the trailing
	// b can never fire. It must not survive as a detached token-less
	// self-loop hanging off the dead exit place.
	net := mustBuild(t, "P = a.P.b")

	if got := len(net.Places()); got != 1 {
		t.Errorf("expected 1 place, got %d", got)
	}
	if got := len(net.Transitions()); got != 1 {
		t.Errorf("expected only transition a, got %d", got)
	}
	for _, tr := range net.Transitions() {
		if tr.Name == "b" {
			t.Error("unreachable transition b survived")
		}
	}
	if got := len(net.Arcs); got != 2 {
		t.Errorf("expected the P -> a -> P cycle only, got %d arcs", got)
	}
}

func TestBuildDropsContinuationAfterMutualRecursion(t *testing.T) {
	// Same through a mutual cycle: c after a.Q is unreachable once Q
	// loops back into P.
	net := mustBuild(t, "P = a.Q.c\nQ = b.P")

	for _, tr := range net.Transitions() {
		if tr.Name == "c" {
			t.Error("unreachable transition c survived")
		}
	}
	if got := len(net.Places()); got != 2 {
		t.Errorf("expected places P and Q only, got %d", got)
	}
}

func TestBuildPrunesDanglingExit(t *testing.T) {
	// A definition that only recurses leaves its pre-created exit place
	// unused; it must not survive as an orphan.
	net := mustBuild(t, "P = a.P")
	for _, p := range net.Places() {
		if p.Name == "" && len(net.InputArcs(p.ID)) == 0 && len(net.OutputArcs(p.ID)) == 0 {
			t.Errorf("orphan anonymous place %d survived", p.ID)
		}
	}
}

func TestBuildEmptyProgram(t *testing.T) {
	prog, err := Parse("")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	net, err := Build(prog)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(net.Nodes) != 0 {
		t.Errorf("expected an empty net, got %d nodes", len(net.Nodes))
	}
}
