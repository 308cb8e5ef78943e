// Package parser handles JSON import/export for Petri net documents.
// A document carries three ordered collections (places, transitions, arcs)
// plus optional metadata, and is the only contract between the core and
// whatever persistence layer stores it. Documents are validated against an
// embedded JSON Schema before a net is constructed from them.
package parser

import (
	"encoding/json"
	"fmt"

	"github.com/procnet-xyz/go-procnet/petri"
)

// Document is the persisted net format.
type Document struct {
	Name        string          `json:"name,omitempty"`
	Source      string          `json:"source,omitempty"` // algebra text the net was built from
	Places      []PlaceDoc      `json:"places"`
	Transitions []TransitionDoc `json:"transitions"`
	Arcs        []ArcDoc        `json:"arcs"`
}

// PlaceDoc is one place entry.
type PlaceDoc struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Tokens    int     `json:"tokens"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	IsProcess bool    `json:"is_process,omitempty"`
	Process   string  `json:"process,omitempty"`
}

// TransitionDoc is one transition entry.
type TransitionDoc struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Process string  `json:"process,omitempty"`
}

// ArcDoc is one arc entry.
type ArcDoc struct {
	SourceID          int  `json:"source_id"`
	TargetID          int  `json:"target_id"`
	PlaceToTransition bool `json:"is_place_to_transition"`
}

// FromJSON parses and validates a persisted document and builds a net from
// it. The document is first checked against the embedded schema, then the
// resulting net is checked for structural integrity (resolvable arc ids,
// bipartiteness); either failure is returned, never panicked.
func FromJSON(data []byte) (*petri.Net, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parser: invalid JSON: %w", err)
	}
	return FromDocument(&doc)
}

// FromDocument builds a net from an already-decoded document.
func FromDocument(doc *Document) (*petri.Net, error) {
	net := petri.NewNet()
	for _, p := range doc.Places {
		net.AddNode(&petri.Node{
			ID:        p.ID,
			Kind:      petri.KindPlace,
			Name:      p.Name,
			Tokens:    p.Tokens,
			X:         p.X,
			Y:         p.Y,
			IsProcess: p.IsProcess,
			Process:   p.Process,
		})
	}
	for _, t := range doc.Transitions {
		net.AddNode(&petri.Node{
			ID:      t.ID,
			Kind:    petri.KindTransition,
			Name:    t.Name,
			X:       t.X,
			Y:       t.Y,
			Process: t.Process,
		})
	}
	for _, a := range doc.Arcs {
		net.Arcs = append(net.Arcs, &petri.Arc{
			Source:            a.SourceID,
			Target:            a.TargetID,
			PlaceToTransition: a.PlaceToTransition,
		})
	}
	if errs := net.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("parser: document failed integrity check: %w", errs[0])
	}
	return net, nil
}

// ToDocument converts a net to its persisted form, preserving node order.
// Velocities are layout scratch state and are not written.
func ToDocument(net *petri.Net, name, source string) *Document {
	doc := &Document{
		Name:        name,
		Source:      source,
		Places:      make([]PlaceDoc, 0),
		Transitions: make([]TransitionDoc, 0),
		Arcs:        make([]ArcDoc, 0, len(net.Arcs)),
	}
	for _, n := range net.Nodes {
		if n.IsPlace() {
			doc.Places = append(doc.Places, PlaceDoc{
				ID:        n.ID,
				Name:      n.Name,
				Tokens:    n.Tokens,
				X:         n.X,
				Y:         n.Y,
				IsProcess: n.IsProcess,
				Process:   n.Process,
			})
		} else {
			doc.Transitions = append(doc.Transitions, TransitionDoc{
				ID:      n.ID,
				Name:    n.Name,
				X:       n.X,
				Y:       n.Y,
				Process: n.Process,
			})
		}
	}
	for _, a := range net.Arcs {
		doc.Arcs = append(doc.Arcs, ArcDoc{
			SourceID:          a.Source,
			TargetID:          a.Target,
			PlaceToTransition: a.PlaceToTransition,
		})
	}
	return doc
}

// ToJSON serializes a net to an indented document.
func ToJSON(net *petri.Net, name, source string) ([]byte, error) {
	return json.MarshalIndent(ToDocument(net, name, source), "", "  ")
}
