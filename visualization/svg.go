// Package visualization renders a laid-out Petri net as SVG.
// It reads node positions and arcs through the graph model's public
// accessors and never mutates the net.
package visualization

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/procnet-xyz/go-procnet/petri"
)

const (
	placeRadius     = 20.0
	transitionHalfW = 8.0
	transitionHalfH = 20.0
	margin          = 60.0
)

// Render converts a net to an SVG document string.
func Render(net *petri.Net) string {
	minX, minY, maxX, maxY := bounds(net)
	width := maxX - minX + 2*margin
	height := maxY - minY + 2*margin
	offX := margin - minX
	offY := margin - minY

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)
	b.WriteString(`<defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="#333"/></marker></defs>` + "\n")

	// Arcs first so nodes draw on top. Dangling arcs are skipped, not
	// rendered as errors: an edited net stays viewable.
	for _, arc := range net.Arcs {
		src := net.Node(arc.Source)
		dst := net.Node(arc.Target)
		if src == nil || dst == nil {
			continue
		}
		x1, y1 := src.X+offX, src.Y+offY
		x2, y2 := dst.X+offX, dst.Y+offY
		x1, y1, x2, y2 = trim(x1, y1, x2, y2, radiusOf(src), radiusOf(dst))
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333" stroke-width="1.5" marker-end="url(#arrow)"/>`+"\n",
			x1, y1, x2, y2)
	}

	for _, node := range net.Nodes {
		x, y := node.X+offX, node.Y+offY
		if node.IsPlace() {
			fill := "#fff"
			if node.IsProcess {
				fill = "#e8f0fe"
			}
			fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.0f" fill="%s" stroke="#333" stroke-width="2"/>`+"\n",
				x, y, placeRadius, fill)
			drawTokens(&b, x, y, node.Tokens)
		} else {
			fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.0f" height="%.0f" fill="#333"/>`+"\n",
				x-transitionHalfW, y-transitionHalfH, 2*transitionHalfW, 2*transitionHalfH)
		}
		if node.Name != "" {
			fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="12">%s</text>`+"\n",
				x, y-radiusOf(node)-6, Escape(node.Name))
		}
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// Save renders a net and writes it to a file.
func Save(net *petri.Net, filename string) error {
	return os.WriteFile(filename, []byte(Render(net)), 0644)
}

// drawTokens draws up to four token dots inside a place, falling back to a
// count label for more.
func drawTokens(b *strings.Builder, x, y float64, tokens int) {
	switch {
	case tokens <= 0:
	case tokens == 1:
		fmt.Fprintf(b, `<circle cx="%.1f" cy="%.1f" r="4" fill="#333"/>`+"\n", x, y)
	case tokens <= 4:
		offsets := [][2]float64{{-6, -6}, {6, -6}, {-6, 6}, {6, 6}}
		for i := 0; i < tokens; i++ {
			fmt.Fprintf(b, `<circle cx="%.1f" cy="%.1f" r="3.5" fill="#333"/>`+"\n",
				x+offsets[i][0], y+offsets[i][1])
		}
	default:
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="12">%d</text>`+"\n",
			x, y, tokens)
	}
}

func radiusOf(n *petri.Node) float64 {
	if n.IsPlace() {
		return placeRadius
	}
	return transitionHalfH
}

// trim shortens a line segment so it starts and ends at node boundaries
// instead of node centers, keeping arrowheads visible.
func trim(x1, y1, x2, y2, r1, r2 float64) (float64, float64, float64, float64) {
	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	if dist < r1+r2+1 {
		return x1, y1, x2, y2
	}
	ux, uy := dx/dist, dy/dist
	return x1 + ux*r1, y1 + uy*r1, x2 - ux*r2, y2 - uy*r2
}

func bounds(net *petri.Net) (minX, minY, maxX, maxY float64) {
	if len(net.Nodes) == 0 {
		return 0, 0, 200, 200
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range net.Nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}
	return
}

// Escape performs minimal escaping for SVG/XML text content.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
