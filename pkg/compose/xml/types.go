package xml

import (
	"encoding/xml"
	"strconv"
)

// Namespace URIs declared on the document root.
const (
	NamespaceW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// BodyElement represents any element that can appear in a document body
type BodyElement interface {
	isBodyElement()
}

// Style represents a style reference (pStyle, tblStyle)
type Style struct {
	Val string
}

// MarshalXML implements custom XML marshaling for Style
func (s Style) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	// The element name depends on the context (pStyle, tblStyle, etc.)
	// so we keep the provided name
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:val"}, Value: s.Val},
	}
	return e.EncodeElement(struct{}{}, start)
}

// OnOff is a toggle property such as w:b or w:i. A true value is written as
// an empty element, a false value as w:val="0" so it can switch off a toggle
// inherited from the paragraph style.
type OnOff bool

// On returns a pointer to a true toggle.
func On() *OnOff {
	v := OnOff(true)
	return &v
}

// Off returns a pointer to a false toggle.
func Off() *OnOff {
	v := OnOff(false)
	return &v
}

// Toggle converts an optional bool into an optional OnOff.
func Toggle(b *bool) *OnOff {
	if b == nil {
		return nil
	}
	v := OnOff(*b)
	return &v
}

// MarshalXML implements custom XML marshaling for OnOff
func (o OnOff) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = nil
	if !o {
		start.Attr = []xml.Attr{{Name: xml.Name{Local: "w:val"}, Value: "0"}}
	}
	return e.EncodeElement(struct{}{}, start)
}

// intVal is a self-closing element carrying a single numeric w:val.
type intVal int

// MarshalXML implements custom XML marshaling for intVal
func (v intVal) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:val"}, Value: strconv.Itoa(int(v))},
	}
	return e.EncodeElement(struct{}{}, start)
}

// empty is a self-closing element without attributes (w:keepNext, w:tblHeader).
type empty struct{}

// MarshalXML implements custom XML marshaling for empty
func (empty) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = nil
	return e.EncodeElement(struct{}{}, start)
}

func wAttr(local, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: "w:" + local}, Value: value}
}
