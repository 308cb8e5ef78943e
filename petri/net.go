// Package petri implements the core Petri net graph model.
// A Petri net is a bipartite graph of Places (states holding tokens) and
// Transitions (events), connected by directed Arcs. Places and transitions
// share one monotonic integer id space so the graph can be stored as an
// arena of nodes and arcs as id pairs, making cycles trivially representable.
package petri

// NodeKind discriminates places from transitions.
type NodeKind int

const (
	KindPlace NodeKind = iota
	KindTransition
)

func (k NodeKind) String() string {
	if k == KindPlace {
		return "place"
	}
	return "transition"
}

// Node is a single Petri net node. Places and transitions are unified under
// one type because the layout engine treats both uniformly; kind-specific
// fields (Tokens, IsProcess) are meaningful only for the matching kind.
type Node struct {
	ID   int
	Kind NodeKind
	Name string

	// Tokens is the current token count. Places only.
	Tokens int

	// X, Y is the node position used by layout and rendering.
	X float64
	Y float64

	// VX, VY is the layout velocity. Scratch state owned by the layout
	// engine; the document codec never writes it.
	VX float64
	VY float64

	// IsProcess marks a place as the entry point of a named process
	// definition. Places only; used by the exporter.
	IsProcess bool

	// Process names the process definition this node belongs to.
	Process string
}

// IsPlace reports whether the node is a place.
func (n *Node) IsPlace() bool { return n.Kind == KindPlace }

// IsTransition reports whether the node is a transition.
func (n *Node) IsTransition() bool { return n.Kind == KindTransition }

// Arc is a directed edge between a place and a transition.
// PlaceToTransition records the direction relative to the bipartition.
type Arc struct {
	Source            int
	Target            int
	PlaceToTransition bool
}

// Net is the shared graph model: an insertion-ordered node arena plus arcs.
// It is populated once per build or load and then mutated in place by the
// layout engine and by user edits. All mutation happens on one logical
// thread; the Net does no locking of its own.
type Net struct {
	Nodes []*Node
	Arcs  []*Arc

	index  map[int]*Node
	nextID int
}

// NewNet creates an empty net.
func NewNet() *Net {
	return &Net{
		Nodes: make([]*Node, 0),
		Arcs:  make([]*Arc, 0),
		index: make(map[int]*Node),
	}
}

// AddPlace adds a place with the next free id.
func (n *Net) AddPlace(name string, tokens int, x, y float64) *Node {
	node := &Node{ID: n.takeID(), Kind: KindPlace, Name: name, Tokens: tokens, X: x, Y: y}
	n.insert(node)
	return node
}

// AddTransition adds a transition with the next free id.
func (n *Net) AddTransition(name string, x, y float64) *Node {
	node := &Node{ID: n.takeID(), Kind: KindTransition, Name: name, X: x, Y: y}
	n.insert(node)
	return node
}

// AddNode adds a fully-formed node, e.g. when loading a persisted document.
// The caller supplies the id; the internal counter advances past it so
// later AddPlace/AddTransition calls never collide.
func (n *Net) AddNode(node *Node) *Node {
	if node.ID >= n.nextID {
		n.nextID = node.ID + 1
	}
	n.insert(node)
	return node
}

// AddArc connects two existing nodes. Direction is derived from the source
// kind. Integrity (bipartiteness, resolvable ids) is not enforced here but
// by Validate, so a loaded or hand-edited net can be represented as-is.
func (n *Net) AddArc(source, target int) *Arc {
	a := &Arc{Source: source, Target: target}
	if s, ok := n.index[source]; ok {
		a.PlaceToTransition = s.IsPlace()
	}
	n.Arcs = append(n.Arcs, a)
	return a
}

// Node returns the node with the given id, or nil.
func (n *Net) Node(id int) *Node { return n.index[id] }

// Places returns all places in insertion order.
func (n *Net) Places() []*Node {
	var out []*Node
	for _, node := range n.Nodes {
		if node.IsPlace() {
			out = append(out, node)
		}
	}
	return out
}

// Transitions returns all transitions in insertion order.
func (n *Net) Transitions() []*Node {
	var out []*Node
	for _, node := range n.Nodes {
		if node.IsTransition() {
			out = append(out, node)
		}
	}
	return out
}

// InputArcs returns all arcs whose target is the given node.
func (n *Net) InputArcs(id int) []*Arc {
	var out []*Arc
	for _, a := range n.Arcs {
		if a.Target == id {
			out = append(out, a)
		}
	}
	return out
}

// OutputArcs returns all arcs whose source is the given node.
func (n *Net) OutputArcs(id int) []*Arc {
	var out []*Arc
	for _, a := range n.Arcs {
		if a.Source == id {
			out = append(out, a)
		}
	}
	return out
}

// MergePlaces redirects every arc touching drop onto keep and removes drop.
// The kept place absorbs the dropped place's tokens and keeps its own name
// and process marking. Arcs that become exact duplicates are collapsed.
// Merging a place with itself is a no-op.
func (n *Net) MergePlaces(keep, drop int) {
	if keep == drop {
		return
	}
	kept := n.index[keep]
	dropped := n.index[drop]
	if kept == nil || dropped == nil || !kept.IsPlace() || !dropped.IsPlace() {
		return
	}
	kept.Tokens += dropped.Tokens
	if kept.Name == "" {
		kept.Name = dropped.Name
	}
	if kept.Process == "" {
		kept.Process = dropped.Process
	}
	for _, a := range n.Arcs {
		if a.Source == drop {
			a.Source = keep
		}
		if a.Target == drop {
			a.Target = keep
		}
	}
	n.dedupeArcs()
	n.remove(drop)
}

// RemoveNode removes a node and every arc touching it.
func (n *Net) RemoveNode(id int) {
	if _, ok := n.index[id]; !ok {
		return
	}
	arcs := n.Arcs[:0]
	for _, a := range n.Arcs {
		if a.Source != id && a.Target != id {
			arcs = append(arcs, a)
		}
	}
	n.Arcs = arcs
	n.remove(id)
}

// Clear resets the net to empty, releasing all nodes and arcs.
func (n *Net) Clear() {
	n.Nodes = n.Nodes[:0]
	n.Arcs = n.Arcs[:0]
	n.index = make(map[int]*Node)
	n.nextID = 0
}

func (n *Net) takeID() int {
	id := n.nextID
	n.nextID++
	return id
}

func (n *Net) insert(node *Node) {
	n.Nodes = append(n.Nodes, node)
	n.index[node.ID] = node
}

func (n *Net) remove(id int) {
	delete(n.index, id)
	for i, node := range n.Nodes {
		if node.ID == id {
			n.Nodes = append(n.Nodes[:i], n.Nodes[i+1:]...)
			return
		}
	}
}

func (n *Net) dedupeArcs() {
	seen := make(map[[2]int]bool, len(n.Arcs))
	arcs := n.Arcs[:0]
	for _, a := range n.Arcs {
		key := [2]int{a.Source, a.Target}
		if seen[key] {
			continue
		}
		seen[key] = true
		arcs = append(arcs, a)
	}
	n.Arcs = arcs
}
