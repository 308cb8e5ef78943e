package petri

// Validate checks structural invariants: unique ids, every arc resolving to
// existing nodes, the bipartite property, and non-negative token counts.
// It returns every violation found rather than stopping at the first, so a
// UI can report them all at once. A nil slice means the net is well formed.
func (n *Net) Validate() []*IntegrityError {
	var errs []*IntegrityError

	seen := make(map[int]bool, len(n.Nodes))
	for _, node := range n.Nodes {
		if seen[node.ID] {
			errs = append(errs, &IntegrityError{Err: ErrDuplicateID, NodeID: node.ID})
		}
		seen[node.ID] = true
		if node.IsPlace() && node.Tokens < 0 {
			errs = append(errs, &IntegrityError{Err: ErrNegativeToken, NodeID: node.ID})
		}
	}

	for _, a := range n.Arcs {
		src := n.index[a.Source]
		dst := n.index[a.Target]
		if src == nil || dst == nil {
			errs = append(errs, &IntegrityError{Err: ErrDanglingArc, Source: a.Source, Target: a.Target})
			continue
		}
		if src.Kind == dst.Kind {
			errs = append(errs, &IntegrityError{Err: ErrNotBipartite, Source: a.Source, Target: a.Target})
		}
	}

	return errs
}
