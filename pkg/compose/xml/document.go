package xml

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

// Header is the XML declaration written at the top of every package part.
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Document represents a Word document structure
type Document struct {
	Body *Body
}

// NewDocument creates a document with an empty body
func NewDocument() *Document {
	return &Document{Body: &Body{}}
}

// MarshalXML implements custom XML marshaling for Document. The root
// declares the w and r namespaces used by every child.
func (doc Document) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{
		Name: xml.Name{Local: "w:document"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:w"}, Value: NamespaceW},
			{Name: xml.Name{Local: "xmlns:r"}, Value: NamespaceR},
		},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	body := doc.Body
	if body == nil {
		body = &Body{}
	}
	if err := e.EncodeElement(body, xml.StartElement{Name: xml.Name{Local: "w:body"}}); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

// Marshal serializes the document with the XML declaration.
func (doc *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Body represents the document body
type Body struct {
	// Elements maintains the order of all body elements
	Elements []BodyElement
	// SectionProperties at the end of the body (critical for Word compatibility)
	SectionProperties *SectionProperties
}

// Append adds elements to the end of the body
func (b *Body) Append(elements ...BodyElement) {
	b.Elements = append(b.Elements, elements...)
}

// MarshalXML implements custom XML marshaling for Body
func (b Body) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:body"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	for _, elem := range b.Elements {
		if err := e.Encode(elem); err != nil {
			return err
		}
	}

	if b.SectionProperties != nil {
		if err := e.EncodeElement(b.SectionProperties, xml.StartElement{Name: xml.Name{Local: "w:sectPr"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(start.End())
}

// SectionProperties describes page geometry, all values in twips
type SectionProperties struct {
	PageWidth    int
	PageHeight   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
	MarginHeader int
	MarginFooter int
}

// TextWidth returns the width between the left and right margins
func (s *SectionProperties) TextWidth() int {
	return s.PageWidth - s.MarginLeft - s.MarginRight
}

// MarshalXML implements custom XML marshaling for SectionProperties
func (s SectionProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:sectPr"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	pgSz := xml.StartElement{
		Name: xml.Name{Local: "w:pgSz"},
		Attr: []xml.Attr{
			wAttr("w", strconv.Itoa(s.PageWidth)),
			wAttr("h", strconv.Itoa(s.PageHeight)),
		},
	}
	if err := e.EncodeElement(struct{}{}, pgSz); err != nil {
		return err
	}

	pgMar := xml.StartElement{
		Name: xml.Name{Local: "w:pgMar"},
		Attr: []xml.Attr{
			wAttr("top", strconv.Itoa(s.MarginTop)),
			wAttr("right", strconv.Itoa(s.MarginRight)),
			wAttr("bottom", strconv.Itoa(s.MarginBottom)),
			wAttr("left", strconv.Itoa(s.MarginLeft)),
			wAttr("header", strconv.Itoa(s.MarginHeader)),
			wAttr("footer", strconv.Itoa(s.MarginFooter)),
			wAttr("gutter", "0"),
		},
	}
	if err := e.EncodeElement(struct{}{}, pgMar); err != nil {
		return err
	}

	return e.EncodeToken(start.End())
}
