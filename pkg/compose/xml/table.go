package xml

import (
	"encoding/xml"
	"strconv"
)

// cellPropertyRank is the CT_TcPr child sequence.
var cellPropertyRank = map[string]int{
	"cnfStyle":      1,
	"tcW":           2,
	"gridSpan":      3,
	"hMerge":        4,
	"vMerge":        5,
	"tcBorders":     6,
	"shd":           7,
	"noWrap":        8,
	"tcMar":         9,
	"textDirection": 10,
	"tcFitText":     11,
	"vAlign":        12,
	"hideMark":      13,
}

// Table represents a table in the document
type Table struct {
	Properties *TableProperties
	Grid       *TableGrid
	Rows       []TableRow
}

// isBodyElement implements the BodyElement interface
func (t *Table) isBodyElement() {}

// MarshalXML implements custom XML marshaling for Table
func (t Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:tbl"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if t.Properties != nil {
		if err := e.EncodeElement(t.Properties, xml.StartElement{Name: xml.Name{Local: "w:tblPr"}}); err != nil {
			return err
		}
	}
	if t.Grid != nil {
		if err := e.EncodeElement(t.Grid, xml.StartElement{Name: xml.Name{Local: "w:tblGrid"}}); err != nil {
			return err
		}
	}
	for i := range t.Rows {
		if err := e.EncodeElement(&t.Rows[i], xml.StartElement{Name: xml.Name{Local: "w:tr"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(start.End())
}

// TableProperties represents table-level properties
type TableProperties struct {
	Style  *Style
	Width  *Width
	Layout string
	Look   *TableLook
}

// MarshalXML implements custom XML marshaling for TableProperties
func (tp TableProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:tblPr"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if tp.Style != nil {
		if err := e.EncodeElement(tp.Style, xml.StartElement{Name: xml.Name{Local: "w:tblStyle"}}); err != nil {
			return err
		}
	}
	if tp.Width != nil {
		if err := e.EncodeElement(tp.Width, xml.StartElement{Name: xml.Name{Local: "w:tblW"}}); err != nil {
			return err
		}
	}
	if tp.Layout != "" {
		layout := xml.StartElement{
			Name: xml.Name{Local: "w:tblLayout"},
			Attr: []xml.Attr{wAttr("type", tp.Layout)},
		}
		if err := e.EncodeElement(struct{}{}, layout); err != nil {
			return err
		}
	}
	if tp.Look != nil {
		if err := e.EncodeElement(tp.Look, xml.StartElement{Name: xml.Name{Local: "w:tblLook"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// TableLook selects which conditional formats of the table style apply
type TableLook struct {
	FirstRow    bool
	FirstColumn bool
	NoHBand     bool
}

// MarshalXML implements custom XML marshaling for TableLook
func (l TableLook) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	flag := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	start.Attr = []xml.Attr{
		wAttr("firstRow", flag(l.FirstRow)),
		wAttr("lastRow", "0"),
		wAttr("firstColumn", flag(l.FirstColumn)),
		wAttr("lastColumn", "0"),
		wAttr("noHBand", flag(l.NoHBand)),
		wAttr("noVBand", "1"),
	}
	return e.EncodeElement(struct{}{}, start)
}

// TableGrid represents the table grid
type TableGrid struct {
	Columns []GridColumn
}

// MarshalXML implements custom XML marshaling for TableGrid
func (g TableGrid) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:tblGrid"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, col := range g.Columns {
		gc := xml.StartElement{
			Name: xml.Name{Local: "w:gridCol"},
			Attr: []xml.Attr{wAttr("w", strconv.Itoa(col.Width))},
		}
		if err := e.EncodeElement(struct{}{}, gc); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// GridColumn represents a column in the table grid, width in twips
type GridColumn struct {
	Width int
}

// TableRow represents a table row
type TableRow struct {
	Properties *TableRowProperties
	Cells      []TableCell
}

// MarshalXML implements custom XML marshaling for TableRow
func (r TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:tr"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if r.Properties != nil && (r.Properties.CantSplit || r.Properties.Header) {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: xml.Name{Local: "w:trPr"}}); err != nil {
			return err
		}
	}
	for i := range r.Cells {
		if err := e.EncodeElement(&r.Cells[i], xml.StartElement{Name: xml.Name{Local: "w:tc"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// TableRowProperties represents row properties
type TableRowProperties struct {
	CantSplit bool
	// Header repeats the row at the top of every page.
	Header bool
}

// MarshalXML implements custom XML marshaling for TableRowProperties
func (p TableRowProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:trPr"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.CantSplit {
		if err := e.EncodeElement(empty{}, xml.StartElement{Name: xml.Name{Local: "w:cantSplit"}}); err != nil {
			return err
		}
	}
	if p.Header {
		if err := e.EncodeElement(empty{}, xml.StartElement{Name: xml.Name{Local: "w:tblHeader"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// TableCell represents a table cell
type TableCell struct {
	Properties *TableCellProperties
	Paragraphs []Paragraph
}

// ExtraProperties implements Patchable
func (c *TableCell) ExtraProperties() *ElementList {
	if c.Properties == nil {
		c.Properties = &TableCellProperties{}
	}
	return &c.Properties.Extra
}

// GetText returns the cell's paragraphs joined by newlines
func (c *TableCell) GetText() string {
	text := ""
	for i := range c.Paragraphs {
		if i > 0 {
			text += "\n"
		}
		text += c.Paragraphs[i].GetText()
	}
	return text
}

// MarshalXML implements custom XML marshaling for TableCell
func (c TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:tc"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if c.Properties != nil {
		if err := e.EncodeElement(c.Properties, xml.StartElement{Name: xml.Name{Local: "w:tcPr"}}); err != nil {
			return err
		}
	}

	paragraphs := c.Paragraphs
	if len(paragraphs) == 0 {
		// A cell must end with a paragraph.
		paragraphs = []Paragraph{{}}
	}
	for i := range paragraphs {
		if err := e.EncodeElement(&paragraphs[i], xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// TableCellProperties represents cell properties
type TableCellProperties struct {
	Width    *Width
	GridSpan int
	VAlign   string
	// Extra holds patched elements such as w:shd.
	Extra ElementList
}

// MarshalXML implements custom XML marshaling for TableCellProperties
func (p TableCellProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var typed []property
	if p.Width != nil {
		typed = append(typed, typedProperty(cellPropertyRank, "tcW", p.Width))
	}
	if p.GridSpan > 1 {
		typed = append(typed, typedProperty(cellPropertyRank, "gridSpan", intVal(p.GridSpan)))
	}
	if p.VAlign != "" {
		typed = append(typed, typedProperty(cellPropertyRank, "vAlign", Alignment{Val: p.VAlign}))
	}
	return encodeProperties(e, xml.StartElement{Name: xml.Name{Local: "w:tcPr"}}, typed, p.Extra, cellPropertyRank)
}

// Width represents a width measurement (tblW, tcW)
type Width struct {
	Type string // dxa, pct, auto
	Val  int
}

// MarshalXML implements custom XML marshaling for Width
func (w Width) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{
		wAttr("w", strconv.Itoa(w.Val)),
		wAttr("type", w.Type),
	}
	return e.EncodeElement(struct{}{}, start)
}
