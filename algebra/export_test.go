package algebra

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/procnet-xyz/go-procnet/petri"
)

// netSignature summarizes a net's structure up to id relabeling: node and
// arc counts plus, for every node, the sorted transition names reachable
// across one arc in each direction. Tokens and process markings are left
// out on purpose; round-tripping may move them between equivalent places.
func netSignature(net *petri.Net) string {
	transitionName := func(id int) (string, bool) {
		n := net.Node(id)
		if n == nil || !n.IsTransition() {
			return "", false
		}
		return n.Name, true
	}

	var entries []string
	for _, p := range net.Places() {
		var in, out []string
		for _, a := range net.InputArcs(p.ID) {
			if name, ok := transitionName(a.Source); ok {
				in = append(in, name)
			}
		}
		for _, a := range net.OutputArcs(p.ID) {
			if name, ok := transitionName(a.Target); ok {
				out = append(out, name)
			}
		}
		sort.Strings(in)
		sort.Strings(out)
		entries = append(entries, fmt.Sprintf("place in=[%s] out=[%s]",
			strings.Join(in, ","), strings.Join(out, ",")))
	}
	for _, tr := range net.Transitions() {
		entries = append(entries, fmt.Sprintf("transition %s in=%d out=%d",
			tr.Name, len(net.InputArcs(tr.ID)), len(net.OutputArcs(tr.ID))))
	}
	sort.Strings(entries)

	return fmt.Sprintf("places=%d transitions=%d arcs=%d\n%s",
		len(net.Places()), len(net.Transitions()), len(net.Arcs),
		strings.Join(entries, "\n"))
}

func rebuild(t *testing.T, source string) *petri.Net {
	t.Helper()
	prog, err := Parse(source)
	if err != nil {
		t.Fatalf("re-parsing exported text failed: %v\n%s", err, source)
	}
	net, err := Build(prog)
	if err != nil {
		t.Fatalf("rebuilding exported text failed: %v\n%s", err, source)
	}
	return net
}

func TestExportRoundTrip(t *testing.T) {
	sources := []string{
		"P = a",
		"P = a.b",
		"P = a.b + c",
		"P = a.P",
		"P = a.b.P",
		"P = a.P.b",
		"P = a.Q\nQ = b.P",
		"P = a.Q.c\nQ = b.P",
		"P = a.STOP",
		"P = a + STOP",
		"P = a.(b + c).d",
		"a.b | c.d",
		"P = a.P\nQ = b.Q",
	}
	for _, source := range sources {
		original := mustBuild(t, source)
		exported := Export(original)
		roundTripped := rebuild(t, exported)

		want := netSignature(original)
		got := netSignature(roundTripped)
		if want != got {
			t.Errorf("round trip of %q changed the structure\nexported:\n%s\nwant:\n%s\ngot:\n%s",
				source, exported, want, got)
		}
	}
}

func TestExportSimple(t *testing.T) {
	net := mustBuild(t, "P = a.b + c")
	got := Export(net)
	if got != "P = a.b + c" {
		t.Errorf("expected %q, got %q", "P = a.b + c", got)
	}
}

func TestExportRecursion(t *testing.T) {
	net := mustBuild(t, "P = a.P")
	if got := Export(net); got != "P = a.P" {
		t.Errorf("expected %q, got %q", "P = a.P", got)
	}
}

func TestExportMain(t *testing.T) {
	net := mustBuild(t, "a.b | c")
	if got := Export(net); got != "a.b | c" {
		t.Errorf("expected %q, got %q", "a.b | c", got)
	}
}

func TestExportTerminal(t *testing.T) {
	net := mustBuild(t, "P = a.STOP")
	if got := Export(net); got != "P = a.STOP" {
		t.Errorf("expected %q, got %q", "P = a.STOP", got)
	}
}

func TestExportPromotesJoin(t *testing.T) {
	// The shared suffix after a re-converging choice comes out once, as a
	// synthetic definition, not duplicated per branch.
	net := mustBuild(t, "P = a.(b + c).d")
	got := Export(net)
	if strings.Count(got, "d") != 1 {
		t.Errorf("shared suffix should appear once, got %q", got)
	}
	if !strings.Contains(got, "X") {
		t.Errorf("expected a synthetic definition, got %q", got)
	}
}

func TestExportEmptyNet(t *testing.T) {
	if got := Export(petri.NewNet()); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestExportHandEditedCycle(t *testing.T) {
	// A cycle through an anonymous place cannot come from Build; the
	// exporter must still terminate on it.
	net := petri.NewNet()
	p := net.AddPlace("", 1, 0, 0)
	q := net.AddPlace("", 0, 0, 0)
	ta := net.AddTransition("a", 0, 0)
	tb := net.AddTransition("b", 0, 0)
	net.AddArc(p.ID, ta.ID)
	net.AddArc(ta.ID, q.ID)
	net.AddArc(q.ID, tb.ID)
	net.AddArc(tb.ID, q.ID)

	got := Export(net)
	if got == "" {
		t.Fatal("expected some output")
	}
	if !strings.Contains(got, "a") || !strings.Contains(got, "b") {
		t.Errorf("both actions should appear, got %q", got)
	}
}
