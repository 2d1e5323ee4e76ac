package xml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// paragraphPropertyRank is the CT_PPr child sequence.
var paragraphPropertyRank = map[string]int{
	"pStyle":              1,
	"keepNext":            2,
	"keepLines":           3,
	"pageBreakBefore":     4,
	"framePr":             5,
	"widowControl":        6,
	"numPr":               7,
	"suppressLineNumbers": 8,
	"pBdr":                9,
	"shd":                 10,
	"tabs":                11,
	"suppressAutoHyphens": 12,
	"kinsoku":             13,
	"wordWrap":            14,
	"overflowPunct":       15,
	"topLinePunct":        16,
	"autoSpaceDE":         17,
	"autoSpaceDN":         18,
	"bidi":                19,
	"adjustRightInd":      20,
	"snapToGrid":          21,
	"spacing":             22,
	"ind":                 23,
	"contextualSpacing":   24,
	"mirrorIndents":       25,
	"suppressOverlap":     26,
	"jc":                  27,
	"textDirection":       28,
	"textAlignment":       29,
	"textboxTightWrap":    30,
	"outlineLvl":          31,
	"divId":               32,
	"cnfStyle":            33,
	"rPr":                 34,
	"sectPr":              35,
	"pPrChange":           36,
}

// Paragraph represents a paragraph in the document
type Paragraph struct {
	Properties *ParagraphProperties
	Runs       []Run
}

// isBodyElement implements the BodyElement interface
func (p *Paragraph) isBodyElement() {}

// ExtraProperties implements Patchable
func (p *Paragraph) ExtraProperties() *ElementList {
	if p.Properties == nil {
		p.Properties = &ParagraphProperties{}
	}
	return &p.Properties.Extra
}

// AddRun appends a run and returns a pointer to it
func (p *Paragraph) AddRun(r Run) *Run {
	p.Runs = append(p.Runs, r)
	return &p.Runs[len(p.Runs)-1]
}

// AddText appends a run holding text. Newlines become line breaks.
func (p *Paragraph) AddText(text string, props *RunProperties) *Run {
	r := Run{Properties: props}
	r.AppendText(text)
	return p.AddRun(r)
}

// MarshalXML implements custom XML marshaling for Paragraph to ensure proper namespacing
func (p Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:p"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Properties != nil {
		if err := e.EncodeElement(p.Properties, xml.StartElement{Name: xml.Name{Local: "w:pPr"}}); err != nil {
			return err
		}
	}

	for i := range p.Runs {
		if err := e.EncodeElement(&p.Runs[i], xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(start.End())
}

// GetText returns the concatenated text of all runs in a paragraph
func (p *Paragraph) GetText() string {
	var sb strings.Builder
	for i := range p.Runs {
		sb.WriteString(p.Runs[i].GetText())
	}
	return sb.String()
}

// ParagraphProperties represents paragraph properties
type ParagraphProperties struct {
	Style         *Style
	KeepNext      bool
	Numbering     *NumberingProperties
	Spacing       *Spacing
	Indentation   *Indentation
	Alignment     *Alignment
	OutlineLevel  *int
	RunProperties *RunProperties
	// Extra holds patched elements such as w:pBdr and w:shd.
	Extra ElementList
}

// MarshalXML implements custom XML marshaling for ParagraphProperties
func (pp ParagraphProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var typed []property
	add := func(name string, v interface{}) {
		typed = append(typed, typedProperty(paragraphPropertyRank, name, v))
	}
	if pp.Style != nil {
		add("pStyle", pp.Style)
	}
	if pp.KeepNext {
		add("keepNext", empty{})
	}
	if pp.Numbering != nil {
		add("numPr", pp.Numbering)
	}
	if pp.Spacing != nil {
		add("spacing", pp.Spacing)
	}
	if pp.Indentation != nil {
		add("ind", pp.Indentation)
	}
	if pp.Alignment != nil {
		add("jc", pp.Alignment)
	}
	if pp.OutlineLevel != nil {
		add("outlineLvl", intVal(*pp.OutlineLevel))
	}
	if pp.RunProperties != nil && !pp.RunProperties.IsEmpty() {
		add("rPr", pp.RunProperties)
	}

	start = xml.StartElement{Name: xml.Name{Local: "w:pPr"}}
	if len(typed) == 0 && len(pp.Extra) == 0 {
		// An empty w:pPr is valid and keeps callers that asked for one honest.
		return e.EncodeElement(struct{}{}, start)
	}
	return encodeProperties(e, start, typed, pp.Extra, paragraphPropertyRank)
}

// NumberingProperties attaches a paragraph to a numbering instance
type NumberingProperties struct {
	Level int
	NumID int
}

// MarshalXML implements custom XML marshaling for NumberingProperties
func (n NumberingProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:numPr"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.EncodeElement(intVal(n.Level), xml.StartElement{Name: xml.Name{Local: "w:ilvl"}}); err != nil {
		return err
	}
	if err := e.EncodeElement(intVal(n.NumID), xml.StartElement{Name: xml.Name{Local: "w:numId"}}); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

// Spacing represents paragraph spacing in twentieths of a point
type Spacing struct {
	Before   *int
	After    *int
	Line     int
	LineRule string
}

// MarshalXML implements custom XML marshaling for Spacing
func (s Spacing) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:spacing"}}
	if s.Before != nil {
		start.Attr = append(start.Attr, wAttr("before", strconv.Itoa(*s.Before)))
	}
	if s.After != nil {
		start.Attr = append(start.Attr, wAttr("after", strconv.Itoa(*s.After)))
	}
	if s.Line != 0 {
		start.Attr = append(start.Attr, wAttr("line", strconv.Itoa(s.Line)))
	}
	if s.LineRule != "" {
		start.Attr = append(start.Attr, wAttr("lineRule", s.LineRule))
	}
	return e.EncodeElement(struct{}{}, start)
}

// Indentation represents paragraph indentation in twips
type Indentation struct {
	Left    int
	Right   int
	Hanging int
}

// MarshalXML implements custom XML marshaling for Indentation
func (ind Indentation) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:ind"}}
	start.Attr = append(start.Attr, wAttr("left", strconv.Itoa(ind.Left)))
	if ind.Right != 0 {
		start.Attr = append(start.Attr, wAttr("right", strconv.Itoa(ind.Right)))
	}
	if ind.Hanging != 0 {
		start.Attr = append(start.Attr, wAttr("hanging", strconv.Itoa(ind.Hanging)))
	}
	return e.EncodeElement(struct{}{}, start)
}

// Alignment represents an alignment value (jc, vAlign)
type Alignment struct {
	Val string
}

// MarshalXML implements custom XML marshaling for Alignment
func (a Alignment) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	// The element name depends on the context (jc, vAlign)
	start.Attr = []xml.Attr{wAttr("val", a.Val)}
	return e.EncodeElement(struct{}{}, start)
}
