package compose

import (
	"github.com/benjaminschreck/go-compose/pkg/compose/render"
)

// Block is one unit of content in a plan. The set of block kinds is closed:
// Heading, Paragraph, BulletList, NumberedList, Table, Rule and PageBreak.
type Block interface {
	// Kind returns a short name used in logs and errors
	Kind() string
	isBlock()
}

// Alignment is a paragraph justification
type Alignment string

// Paragraph alignments
const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "both"
)

// RunSpec is a span of text with optional per-run formatting.
// Nil pointers inherit from the paragraph style.
type RunSpec struct {
	Text      string
	Bold      *bool
	Italic    *bool
	ColorRGB  string
	SizePt    float64
	Underline bool
	// Style is a character style ID
	Style string
}

// Text returns an unformatted run
func Text(s string) RunSpec {
	return RunSpec{Text: s}
}

// Bold returns a bold run
func Bold(s string) RunSpec {
	b := true
	return RunSpec{Text: s, Bold: &b}
}

// Italic returns an italic run
func Italic(s string) RunSpec {
	i := true
	return RunSpec{Text: s, Italic: &i}
}

// WithColor returns a copy of the run with a colour override
func (r RunSpec) WithColor(rgb string) RunSpec {
	r.ColorRGB = rgb
	return r
}

// WithSize returns a copy of the run with a size override in points
func (r RunSpec) WithSize(pt float64) RunSpec {
	r.SizePt = pt
	return r
}

// Heading is a section heading of level 1..4
type Heading struct {
	Level int
	Text  string
	// Style overrides the Heading<Level> style
	Style string
	Align Alignment
}

// Paragraph is a paragraph of runs
type Paragraph struct {
	Runs []RunSpec
	// Style defaults to Normal
	Style        string
	Align        Alignment
	Indent       render.Length
	SpaceBefore  *float64
	SpaceAfter   *float64
	KeepWithNext bool
}

// ListItem is one entry of a list. Level 0 is the outermost.
type ListItem struct {
	Runs  []RunSpec
	Level int
}

// Item returns a level-0 list item of plain text
func Item(text string) ListItem {
	return ListItem{Runs: []RunSpec{Text(text)}}
}

// BulletList is a run of bulleted list items
type BulletList struct {
	Items []ListItem
}

// NumberedList is a run of numbered list items. Numbering restarts at Start
// (1 when zero) for every NumberedList block.
type NumberedList struct {
	Items []ListItem
	Start int
}

// Table is a table with a header row
type Table struct {
	Header []string
	Rows   [][]string
	// Shading holds a fill colour per data cell, same shape as Rows.
	// Empty strings leave a cell unshaded.
	Shading      [][]string
	ColumnWidths []render.Length
	// HeaderFill and HeaderColor default to the palette's header colours
	HeaderFill      string
	HeaderColor     string
	BoldFirstColumn bool
	// Style defaults to TableGrid
	Style string
}

// Rule is a horizontal line drawn as a paragraph bottom border
type Rule struct {
	// ColorRGB defaults to the palette's rule colour
	ColorRGB string
}

// PageBreak starts a new page
type PageBreak struct{}

func (Heading) isBlock()      {}
func (Paragraph) isBlock()    {}
func (BulletList) isBlock()   {}
func (NumberedList) isBlock() {}
func (Table) isBlock()        {}
func (Rule) isBlock()         {}
func (PageBreak) isBlock()    {}

// Kind implements Block
func (Heading) Kind() string { return "heading" }

// Kind implements Block
func (Paragraph) Kind() string { return "paragraph" }

// Kind implements Block
func (BulletList) Kind() string { return "bullet_list" }

// Kind implements Block
func (NumberedList) Kind() string { return "numbered_list" }

// Kind implements Block
func (Table) Kind() string { return "table" }

// Kind implements Block
func (Rule) Kind() string { return "rule" }

// Kind implements Block
func (PageBreak) Kind() string { return "page_break" }
