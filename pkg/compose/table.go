package compose

import (
	"fmt"

	"github.com/benjaminschreck/go-compose/pkg/compose/render"
	"github.com/benjaminschreck/go-compose/pkg/compose/xml"
)

// checkTableShape verifies that every data row, the shading grid and the
// column widths match the header's column count.
func checkTableShape(t Table) error {
	cols := len(t.Header)
	if cols == 0 {
		return &ShapeError{Code: CodeEmptyTable, Message: "table has no header columns", Block: noBlock, Row: -1}
	}

	for i, row := range t.Rows {
		if len(row) != cols {
			return &ShapeError{Code: CodeTableShapeMismatch, Block: noBlock, Row: i, Expected: cols, Actual: len(row)}
		}
	}

	if t.Shading != nil {
		if len(t.Shading) != len(t.Rows) {
			return &ShapeError{
				Code:     CodeTableShapeMismatch,
				Message:  "shading rows",
				Block:    noBlock,
				Row:      -1,
				Expected: len(t.Rows),
				Actual:   len(t.Shading),
			}
		}
		for i, row := range t.Shading {
			if len(row) != cols {
				return &ShapeError{
					Code:     CodeTableShapeMismatch,
					Message:  "shading",
					Block:    noBlock,
					Row:      i,
					Expected: cols,
					Actual:   len(row),
				}
			}
		}
	}

	if len(t.ColumnWidths) > 0 && len(t.ColumnWidths) != cols {
		return &ShapeError{
			Code:     CodeTableShapeMismatch,
			Message:  "column widths",
			Block:    noBlock,
			Row:      -1,
			Expected: cols,
			Actual:   len(t.ColumnWidths),
		}
	}
	return nil
}

func (b *builder) table(t Table) ([]xml.BodyElement, error) {
	if err := checkTableShape(t); err != nil {
		return nil, err
	}

	styleID := t.Style
	if styleID == "" {
		styleID = StyleTableGrid
	}
	if _, err := b.styles.resolveKind(styleID, TableStyle); err != nil {
		return nil, err
	}

	palette := b.styles.Palette()
	headerFill, err := b.color(t.HeaderFill, palette.HeaderFill)
	if err != nil {
		return nil, err
	}
	headerColor, err := b.color(t.HeaderColor, palette.HeaderText)
	if err != nil {
		return nil, err
	}

	cols := len(t.Header)
	widths := t.ColumnWidths
	fixed := len(widths) > 0
	if !fixed {
		widths = render.SplitEvenly(b.textWidth, cols)
	}

	tbl := &xml.Table{
		Properties: &xml.TableProperties{
			Style: &xml.Style{Val: styleID},
			Width: &xml.Width{Type: "auto"},
			Look:  &xml.TableLook{FirstRow: true, FirstColumn: t.BoldFirstColumn, NoHBand: true},
		},
		Grid: &xml.TableGrid{},
	}
	var total render.Length
	for _, w := range widths {
		tbl.Grid.Columns = append(tbl.Grid.Columns, xml.GridColumn{Width: w.Twips()})
		total += w
	}
	if fixed {
		tbl.Properties.Width = &xml.Width{Type: "dxa", Val: total.Twips()}
		tbl.Properties.Layout = "fixed"
	}

	// Header row
	headerProps := &xml.RunProperties{Bold: xml.On(), Color: &xml.Color{Val: headerColor}}
	header := xml.TableRow{Properties: &xml.TableRowProperties{Header: true, CantSplit: true}}
	for c, text := range t.Header {
		header.Cells = append(header.Cells, newCell(text, widths[c], headerProps))
	}
	for c := range header.Cells {
		if err := b.doc.setProperty(&header.Cells[c], ShadingElement(headerFill)); err != nil {
			return nil, err
		}
	}
	tbl.Rows = append(tbl.Rows, header)

	// Data rows
	for r, values := range t.Rows {
		row := xml.TableRow{}
		for c, text := range values {
			var props *xml.RunProperties
			if t.BoldFirstColumn && c == 0 {
				props = &xml.RunProperties{Bold: xml.On()}
			}
			row.Cells = append(row.Cells, newCell(text, widths[c], props))
		}
		if t.Shading != nil {
			for c, fill := range t.Shading[r] {
				if fill == "" {
					continue
				}
				color, err := b.color(fill, "")
				if err != nil {
					return nil, fmt.Errorf("shading of row %d column %d: %w", r, c, err)
				}
				if err := b.doc.setProperty(&row.Cells[c], ShadingElement(color)); err != nil {
					return nil, err
				}
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	return []xml.BodyElement{tbl}, nil
}

// newCell creates a cell of the given width holding one paragraph of text.
func newCell(text string, width render.Length, props *xml.RunProperties) xml.TableCell {
	para := xml.Paragraph{}
	if text != "" {
		para.AddText(text, props)
	}
	return xml.TableCell{
		Properties: &xml.TableCellProperties{Width: &xml.Width{Type: "dxa", Val: width.Twips()}},
		Paragraphs: []xml.Paragraph{para},
	}
}
