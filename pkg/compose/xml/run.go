package xml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// RunContent is a child of a run: Text or Break
type RunContent interface {
	isRunContent()
}

// Run represents a run of text with uniform formatting
type Run struct {
	Properties *RunProperties
	Content    []RunContent
}

// AppendText adds text to the run, splitting it on newlines into text
// segments separated by line breaks.
func (r *Run) AppendText(text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.Content = append(r.Content, &Break{})
		}
		if line != "" {
			r.Content = append(r.Content, NewText(line))
		}
	}
}

// AppendBreak adds a break of the given type ("" for a line break, "page")
func (r *Run) AppendBreak(breakType string) {
	r.Content = append(r.Content, &Break{Type: breakType})
}

// MarshalXML implements custom XML marshaling for Run to ensure proper namespacing
func (r Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:r"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if r.Properties != nil && !r.Properties.IsEmpty() {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
			return err
		}
	}

	for _, c := range r.Content {
		if err := e.Encode(c); err != nil {
			return err
		}
	}

	return e.EncodeToken(start.End())
}

// GetText returns the text content of a run. Line breaks read as newlines,
// page breaks are skipped.
func (r *Run) GetText() string {
	var sb strings.Builder
	for _, c := range r.Content {
		switch v := c.(type) {
		case *Text:
			sb.WriteString(v.Content)
		case *Break:
			if v.Type == "" || v.Type == "textWrapping" {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// RunProperties represents run formatting properties
type RunProperties struct {
	Style     *RunStyle
	Font      *Font
	Bold      *OnOff
	Italic    *OnOff
	Strike    *OnOff
	Color     *Color
	Size      *Size
	SizeCs    *Size
	Underline *UnderlineStyle
	Lang      *Lang
}

// IsEmpty reports whether no property is set
func (rp *RunProperties) IsEmpty() bool {
	return rp == nil || *rp == RunProperties{}
}

// Equal reports whether two property sets format text identically
func (rp *RunProperties) Equal(other *RunProperties) bool {
	if rp.IsEmpty() || other.IsEmpty() {
		return rp.IsEmpty() && other.IsEmpty()
	}
	return equalPtr(rp.Style, other.Style) &&
		equalPtr(rp.Font, other.Font) &&
		equalPtr(rp.Bold, other.Bold) &&
		equalPtr(rp.Italic, other.Italic) &&
		equalPtr(rp.Strike, other.Strike) &&
		equalPtr(rp.Color, other.Color) &&
		equalPtr(rp.Size, other.Size) &&
		equalPtr(rp.SizeCs, other.SizeCs) &&
		equalPtr(rp.Underline, other.Underline) &&
		equalPtr(rp.Lang, other.Lang)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// MarshalXML implements custom XML marshaling for RunProperties. Children
// are written in CT_RPr sequence order.
func (rp RunProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:rPr"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	children := []struct {
		name  string
		value interface{}
		set   bool
	}{
		{"rStyle", rp.Style, rp.Style != nil},
		{"rFonts", rp.Font, rp.Font != nil},
		{"b", rp.Bold, rp.Bold != nil},
		{"i", rp.Italic, rp.Italic != nil},
		{"strike", rp.Strike, rp.Strike != nil},
		{"color", rp.Color, rp.Color != nil},
		{"sz", rp.Size, rp.Size != nil},
		{"szCs", rp.SizeCs, rp.SizeCs != nil},
		{"u", rp.Underline, rp.Underline != nil},
		{"lang", rp.Lang, rp.Lang != nil},
	}
	for _, c := range children {
		if !c.set {
			continue
		}
		if err := e.EncodeElement(c.value, xml.StartElement{Name: xml.Name{Local: "w:" + c.name}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(start.End())
}

// Text represents text content
type Text struct {
	Space   string
	Content string
}

// NewText creates a text node, preserving leading and trailing whitespace
func NewText(content string) *Text {
	t := &Text{Content: content}
	if strings.TrimSpace(content) != content {
		t.Space = "preserve"
	}
	return t
}

func (t *Text) isRunContent() {}

// MarshalXML implements custom XML marshaling for Text to ensure proper namespacing
func (t Text) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:t"}}
	if t.Space == "preserve" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "xml:space"},
			Value: "preserve",
		})
	}
	return e.EncodeElement(t.Content, start)
}

// Break represents a line, column or page break
type Break struct {
	Type string
}

func (b *Break) isRunContent() {}

// MarshalXML implements xml.Marshaler to ensure Break is self-closing
func (b Break) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:br"}}
	if b.Type != "" {
		start.Attr = append(start.Attr, wAttr("type", b.Type))
	}
	return e.EncodeElement(struct{}{}, start)
}

// Color represents text color as 6-digit hex
type Color struct {
	Val string
}

// MarshalXML implements custom XML marshaling for Color
func (c Color) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{wAttr("val", c.Val)}
	return e.EncodeElement(struct{}{}, start)
}

// Size represents font size in half-points
type Size struct {
	Val int
}

// MarshalXML implements custom XML marshaling for Size
func (s Size) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{wAttr("val", strconv.Itoa(s.Val))}
	return e.EncodeElement(struct{}{}, start)
}

// Lang represents language settings
type Lang struct {
	Val string
}

// MarshalXML implements custom XML marshaling for Lang
func (l Lang) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{wAttr("val", l.Val)}
	return e.EncodeElement(struct{}{}, start)
}

// Font represents font information applied to every script slot
type Font struct {
	Family string
}

// MarshalXML implements custom XML marshaling for Font
func (f Font) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{
		wAttr("ascii", f.Family),
		wAttr("hAnsi", f.Family),
		wAttr("eastAsia", f.Family),
		wAttr("cs", f.Family),
	}
	return e.EncodeElement(struct{}{}, start)
}

// RunStyle represents a character style reference
type RunStyle struct {
	Val string
}

// MarshalXML implements custom XML marshaling for RunStyle
func (s RunStyle) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{wAttr("val", s.Val)}
	return e.EncodeElement(struct{}{}, start)
}

// UnderlineStyle represents underline formatting
type UnderlineStyle struct {
	Val string
}

// MarshalXML implements custom XML marshaling for UnderlineStyle
func (u UnderlineStyle) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{wAttr("val", u.Val)}
	return e.EncodeElement(struct{}{}, start)
}
