package compose

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminschreck/go-compose/pkg/compose/render"
)

func renderOutline(t *testing.T, doc *Document) []OutlineNode {
	t.Helper()
	data, err := doc.Render()
	require.NoError(t, err)
	nodes, err := ReadOutline(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return nodes
}

func TestOutlineRoundTrip(t *testing.T) {
	doc := finalizedDocument(t,
		Heading{Level: 1, Text: "Executive Summary"},
		Paragraph{Runs: []RunSpec{Bold("Timeline: "), Text("2-3 weeks")}},
		Paragraph{Runs: []RunSpec{Text("Line one\nLine two")}},
		BulletList{Items: []ListItem{Item("Admin portal"), {Runs: []RunSpec{Text("Roles")}, Level: 1}}},
		NumberedList{Items: []ListItem{Item("Discovery")}},
		Rule{},
		Heading{Level: 3, Text: "Pricing"},
		Table{
			Header:       []string{"Item", "Details"},
			Rows:         [][]string{{"Development", "Hourly"}, {"Hosting", ""}},
			Shading:      [][]string{{"", "DCFCE7"}, {"", ""}},
			ColumnWidths: []render.Length{render.Inches(2), render.Inches(4.5)},
		},
		PageBreak{},
		Paragraph{Style: StyleCaption, Runs: []RunSpec{Italic("Prepared for the client")}},
	)

	nodes := renderOutline(t, doc)
	require.Len(t, nodes, 11)

	tests := []struct {
		index int
		kind  NodeKind
		style string
		level int
		text  string
	}{
		{0, NodeHeading, "Heading1", 1, "Executive Summary"},
		{1, NodeParagraph, "Normal", 0, "Timeline: 2-3 weeks"},
		{2, NodeParagraph, "Normal", 0, "Line one\nLine two"},
		{3, NodeListItem, "ListParagraph", 0, "Admin portal"},
		{4, NodeListItem, "ListParagraph", 1, "Roles"},
		{5, NodeListItem, "ListParagraph", 0, "Discovery"},
		{6, NodeRule, "Normal", 0, ""},
		{7, NodeHeading, "Heading3", 3, "Pricing"},
		{8, NodeTable, "TableGrid", 0, ""},
		{9, NodePageBreak, "", 0, ""},
		{10, NodeParagraph, "Caption", 0, "Prepared for the client"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.text, func(t *testing.T) {
			node := nodes[tt.index]
			assert.Equal(t, tt.kind, node.Kind)
			assert.Equal(t, tt.style, node.Style)
			assert.Equal(t, tt.level, node.Level)
			assert.Equal(t, tt.text, node.Text)
		})
	}

	assert.Equal(t, []string{"Timeline: ", "2-3 weeks"}, nodes[1].Runs)
	assert.Equal(t, bulletNumID, nodes[3].NumID)
	assert.Equal(t, 2, nodes[5].NumID)
	assert.Equal(t, "7C3AED", nodes[6].BorderColor)

	table := nodes[8]
	assert.Equal(t, []int{2880, 6480}, table.Columns)
	assert.Equal(t, [][]string{{"Item", "Details"}, {"Development", "Hourly"}, {"Hosting", ""}}, table.Cells)
	assert.Equal(t, [][]string{{"7C3AED", "7C3AED"}, {"", "DCFCE7"}, {"", ""}}, table.Fills)
}

// The three end-to-end scenarios of the composition pipeline.

func TestOutlineHeadingLevels(t *testing.T) {
	doc := newTestDocument(t)
	require.NoError(t, doc.DefineStyle("Lead", StyleSpec{Name: "Lead", BasedOn: StyleNormal, OutlineLevel: 3}))
	require.NoError(t, doc.DefineStyle("LeadNote", StyleSpec{Name: "Lead Note", BasedOn: "Lead"}))
	require.NoError(t, doc.Compose(
		Heading{Level: 2, Text: "Project Scope", Style: StyleTitle},
		Heading{Level: 3, Text: "Phase", Style: "Lead"},
		Paragraph{Style: "LeadNote", Runs: []RunSpec{Text("Inherited")}},
		Heading{Level: 1, Text: "Summary"},
		textParagraph("Body"),
	))
	require.NoError(t, doc.Finalize())

	tests := []struct {
		kind  NodeKind
		level int
		style string
	}{
		{NodeHeading, 2, StyleTitle},
		{NodeHeading, 3, "Lead"},
		{NodeHeading, 3, "LeadNote"},
		{NodeHeading, 1, "Heading1"},
		{NodeParagraph, 0, StyleNormal},
	}

	nodes := renderOutline(t, doc)
	require.Len(t, nodes, len(tests))
	for i, tt := range tests {
		assert.Equal(t, tt.kind, nodes[i].Kind, "node %d", i)
		assert.Equal(t, tt.level, nodes[i].Level, "node %d", i)
		assert.Equal(t, tt.style, nodes[i].Style, "node %d", i)
	}

	// Only the heading whose style has another outline level carries its own.
	title := marshalElement(t, bodyParagraph(t, doc, 0))
	assert.Contains(t, title, `<w:outlineLvl w:val="1"></w:outlineLvl>`)
	assert.NotContains(t, marshalElement(t, bodyParagraph(t, doc, 1)), "outlineLvl")
	assert.NotContains(t, marshalElement(t, bodyParagraph(t, doc, 3)), "outlineLvl")
}

func TestScenarioHeadingParagraphTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Palette.Accent = "0F766E"
	path := filepath.Join(t.TempDir(), "scenario.docx")

	err := RenderFile(Plan{
		Blocks: []Block{
			Heading{Level: 1, Text: "Title"},
			Paragraph{Runs: []RunSpec{Text("body text")}},
			Table{Header: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}},
		},
	}, path, WithConfig(cfg))
	require.NoError(t, err)

	nodes, err := ReadOutlineFile(path)
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	assert.Equal(t, NodeHeading, nodes[0].Kind)
	assert.Equal(t, 1, nodes[0].Level)
	assert.Equal(t, "Title", nodes[0].Text)

	assert.Equal(t, NodeParagraph, nodes[1].Kind)
	assert.Equal(t, []string{"body text"}, nodes[1].Runs)

	table := nodes[2]
	assert.Equal(t, NodeTable, table.Kind)
	assert.Len(t, table.Columns, 2)
	require.Len(t, table.Cells, 2)
	assert.Equal(t, []string{"A", "B"}, table.Cells[0])
	assert.Equal(t, []string{"1", "2"}, table.Cells[1])
	assert.Equal(t, []string{"0F766E", "0F766E"}, table.Fills[0])
}

func TestScenarioShapeMismatchWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.docx")

	err := RenderFile(Plan{
		Blocks: []Block{
			Heading{Level: 1, Text: "Title"},
			Table{Header: []string{"A", "B"}, Rows: [][]string{{"1", "2"}, {"3", "4", "5"}}},
		},
	}, path)
	require.Error(t, err)

	var shape *ShapeError
	require.True(t, errors.As(err, &shape))
	assert.Equal(t, CodeTableShapeMismatch, shape.Code)
	assert.Equal(t, 1, shape.Block)
	assert.Equal(t, 1, shape.Row)
	assert.Equal(t, 2, shape.Expected)
	assert.Equal(t, 3, shape.Actual)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScenarioUnknownHeadingStyle(t *testing.T) {
	var buf bytes.Buffer
	err := Render(Plan{
		Blocks: []Block{
			Paragraph{Runs: []RunSpec{Text("intro")}},
			Heading{Level: 2, Text: "Pricing", Style: "FancyHeading"},
		},
	}, &buf)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.True(t, errors.Is(err, ErrUnknownStyle))
	assert.Zero(t, buf.Len(), "no XML is generated")
}

func TestDocxReaderErrors(t *testing.T) {
	t.Run("not a zip", func(t *testing.T) {
		data := []byte("plain text")
		_, err := NewDocxReader(bytes.NewReader(data), int64(len(data)))
		assert.Error(t, err)
	})

	t.Run("missing document part", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("word/styles.xml")
		require.NoError(t, err)
		_, err = w.Write([]byte("<w:styles/>"))
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		_, err = NewDocxReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		require.Error(t, err)
		assert.Contains(t, err.Error(), PartDocument)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadOutlineFile(filepath.Join(t.TempDir(), "none.docx"))
		assert.True(t, IsIOError(err))
	})
}

func TestDocxReaderParts(t *testing.T) {
	data, err := finalizedDocument(t).Render()
	require.NoError(t, err)

	dr, err := NewDocxReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/app.xml",
		"docProps/core.xml",
		"word/_rels/document.xml.rels",
		"word/document.xml",
		"word/numbering.xml",
		"word/settings.xml",
		"word/styles.xml",
	}, dr.ListParts())

	_, err = dr.GetPart("word/header1.xml")
	assert.Error(t, err)

	nodes, err := dr.Outline()
	require.NoError(t, err)
	assert.Empty(t, nodes)
}
