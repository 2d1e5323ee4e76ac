package compose

import (
	"strconv"

	"github.com/benjaminschreck/go-compose/pkg/compose/xml"
)

// Handle is a typed reference to a patchable node (paragraph or table cell)
// of a document under construction.
type Handle struct {
	doc  *Document
	node xml.Patchable
}

// Handle wraps a node for patching. SetProperty fails unless the node was
// composed into this document.
func (d *Document) Handle(node xml.Patchable) Handle {
	return Handle{doc: d, node: node}
}

// SetProperty inserts el into the node's properties, replacing any element
// of the same name. Applying the same element twice leaves one copy.
func (h Handle) SetProperty(el xml.Element) error {
	if h.doc == nil || h.node == nil {
		return &StateError{Code: CodePatch, Operation: "patch a detached node"}
	}
	if _, ok := h.doc.nodes[h.node]; !ok && h.doc.state != StateFinalized {
		return &StateError{Code: CodePatch, Operation: "patch a node of another document", State: h.doc.state}
	}
	return h.doc.setProperty(h.node, el)
}

// setProperty patches node without the ownership check. Builders use it on
// nodes staged by the running Compose call.
func (d *Document) setProperty(node xml.Patchable, el xml.Element) error {
	if d.state == StateFinalized {
		return &StateError{Code: CodePatch, Operation: "patch " + el.Name, State: d.state}
	}
	if el.Name == "" {
		return &StateError{Code: CodePatch, Operation: "patch an unnamed element", State: d.state}
	}
	node.ExtraProperties().Set(el)
	return nil
}

// adopt records the patchable nodes of committed body elements.
func (d *Document) adopt(elements []xml.BodyElement) {
	for _, elem := range elements {
		switch v := elem.(type) {
		case *xml.Paragraph:
			d.nodes[v] = struct{}{}
		case *xml.Table:
			for r := range v.Rows {
				for c := range v.Rows[r].Cells {
					d.nodes[&v.Rows[r].Cells[c]] = struct{}{}
				}
			}
		}
	}
}

// ShadingElement builds a clear w:shd with the given fill colour.
func ShadingElement(fill string) xml.Element {
	return xml.NewElement("shd", map[string]string{
		"val":   "clear",
		"color": "auto",
		"fill":  fill,
	})
}

// BottomBorderElement builds a w:pBdr with a single bottom border.
// size is in eighths of a point.
func BottomBorderElement(color string, size int) xml.Element {
	return xml.NewElement("pBdr", nil,
		xml.NewElement("bottom", map[string]string{
			"val":   "single",
			"sz":    strconv.Itoa(size),
			"space": "1",
			"color": color,
		}),
	)
}
