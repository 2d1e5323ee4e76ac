package xml

import (
	"encoding/xml"
	"sort"
	"strings"
)

// Element is a structured raw WordprocessingML element. It covers the
// properties the typed model does not expose (w:shd, w:pBdr and friends).
// Names and attribute keys without a prefix are placed in the w namespace.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []Element
}

// NewElement creates an element with the given attributes and children.
func NewElement(name string, attrs map[string]string, children ...Element) Element {
	return Element{Name: name, Attrs: attrs, Children: children}
}

// Attr returns the value of the named attribute.
func (el Element) Attr(name string) (string, bool) {
	v, ok := el.Attrs[name]
	return v, ok
}

// Child returns the first child with the given name.
func (el Element) Child(name string) (Element, bool) {
	for _, c := range el.Children {
		if c.Name == name {
			return c, true
		}
	}
	return Element{}, false
}

// MarshalXML implements custom XML marshaling for Element
func (el Element) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: qualify(el.Name)}}

	// Sorted so the output is stable across runs.
	keys := make([]string, 0, len(el.Attrs))
	for k := range el.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: qualify(k)}, Value: el.Attrs[k]})
	}

	if len(el.Children) == 0 {
		return e.EncodeElement(struct{}{}, start)
	}

	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range el.Children {
		if err := e.Encode(child); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func qualify(name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return "w:" + name
}

func localName(name string) string {
	if i := strings.LastIndex(name, ":"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// ElementList is an ordered set of elements keyed by name.
type ElementList []Element

// Set replaces the element with the same name, or appends it.
// Setting the same element twice leaves a single copy.
func (l *ElementList) Set(el Element) {
	for i := range *l {
		if localName((*l)[i].Name) == localName(el.Name) {
			(*l)[i] = el
			return
		}
	}
	*l = append(*l, el)
}

// Get returns the element with the given name.
func (l ElementList) Get(name string) (Element, bool) {
	for _, el := range l {
		if localName(el.Name) == localName(name) {
			return el, true
		}
	}
	return Element{}, false
}

// Remove deletes the element with the given name and reports whether it was present.
func (l *ElementList) Remove(name string) bool {
	for i := range *l {
		if localName((*l)[i].Name) == localName(name) {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

// Patchable is a node that owns a properties element which can carry raw
// elements next to its typed properties.
type Patchable interface {
	// ExtraProperties returns the raw element list of the node's properties,
	// creating the properties node if absent.
	ExtraProperties() *ElementList
}

// property is one child of a properties element waiting to be encoded.
type property struct {
	rank  int
	name  string
	value interface{}
}

// unrankedProperty places unknown elements after every known child.
const unrankedProperty = 1 << 16

// encodeProperties writes start, then the typed properties and the extra
// elements merged by schema rank, then the end token. An extra element
// replaces the typed property with the same name.
func encodeProperties(e *xml.Encoder, start xml.StartElement, typed []property, extra ElementList, ranks map[string]int) error {
	props := make([]property, 0, len(typed)+len(extra))
	patched := make(map[string]bool, len(extra))
	for _, el := range extra {
		name := localName(el.Name)
		patched[name] = true
		rank, ok := ranks[name]
		if !ok {
			rank = unrankedProperty
		}
		props = append(props, property{rank: rank, name: name, value: el})
	}
	for _, p := range typed {
		if patched[p.name] {
			continue
		}
		props = append(props, p)
	}
	if len(props) == 0 {
		return nil
	}

	sort.SliceStable(props, func(i, j int) bool {
		return props[i].rank < props[j].rank
	})

	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, p := range props {
		if err := e.EncodeElement(p.value, xml.StartElement{Name: xml.Name{Local: "w:" + p.name}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// typedProperty builds a property entry using the rank table.
func typedProperty(ranks map[string]int, name string, value interface{}) property {
	return property{rank: ranks[name], name: name, value: value}
}
