package compose

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// DocxReader gives read access to the parts of a .docx package
type DocxReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// NewDocxReader creates a new DOCX reader
func NewDocxReader(r io.ReaderAt, size int64) (*DocxReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	dr := &DocxReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}
	for _, file := range zipReader.File {
		dr.Parts[file.Name] = file
	}

	if _, ok := dr.Parts[PartDocument]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", PartDocument)
	}
	return dr, nil
}

// GetPart retrieves the content of a specific part
func (dr *DocxReader) GetPart(partName string) ([]byte, error) {
	file, ok := dr.Parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s not found", partName)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partName, err)
	}
	return content, nil
}

// ListParts returns the sorted part names of the package
func (dr *DocxReader) ListParts() []string {
	parts := make([]string, 0, len(dr.Parts))
	for name := range dr.Parts {
		parts = append(parts, name)
	}
	sort.Strings(parts)
	return parts
}

// NodeKind classifies a top-level body element
type NodeKind string

// Node kinds reported by the outline reader
const (
	NodeHeading   NodeKind = "heading"
	NodeParagraph NodeKind = "paragraph"
	NodeListItem  NodeKind = "list_item"
	NodeTable     NodeKind = "table"
	NodeRule      NodeKind = "rule"
	NodePageBreak NodeKind = "page_break"
)

// OutlineNode describes one body element of a package
type OutlineNode struct {
	Kind NodeKind
	// Style is the paragraph style ID
	Style string
	// Level is the heading level, or the list level of a list item
	Level int
	// NumID is the numbering instance of a list item
	NumID int
	// Text is the paragraph text with line breaks as newlines
	Text string
	// Runs holds the text of each w:r
	Runs []string
	// Cells holds the text of each table cell, header row first
	Cells [][]string
	// Fills holds each table cell's w:shd fill, "" when unshaded
	Fills [][]string
	// Columns holds the tblGrid widths in twips
	Columns []int
	// BorderColor is the bottom border colour of a rule
	BorderColor string
}

// ReadOutlineFile reads the body outline of a .docx file
func ReadOutlineFile(path string) ([]OutlineNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewIOError("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, NewIOError("stat", path, err)
	}
	return ReadOutline(f, info.Size())
}

// ReadOutline reads the body outline of a .docx package
func ReadOutline(r io.ReaderAt, size int64) ([]OutlineNode, error) {
	dr, err := NewDocxReader(r, size)
	if err != nil {
		return nil, err
	}
	return dr.Outline()
}

// Outline parses word/document.xml into an ordered list of nodes
func (dr *DocxReader) Outline() ([]OutlineNode, error) {
	data, err := dr.GetPart(PartDocument)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", PartDocument, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "document" {
		return nil, fmt.Errorf("failed to parse %s: missing document root", PartDocument)
	}
	body := child(root, "body")
	if body == nil {
		return nil, fmt.Errorf("failed to parse %s: missing body", PartDocument)
	}

	levels := dr.styleOutlineLevels()
	var nodes []OutlineNode
	for _, el := range body.ChildElements() {
		switch el.Tag {
		case "p":
			nodes = append(nodes, paragraphNode(el, levels))
		case "tbl":
			nodes = append(nodes, tableNode(el))
		}
	}
	return nodes, nil
}

// styleOutlineLevels maps paragraph style IDs to their 1-based outline
// level, following basedOn. A missing or unreadable styles part yields an
// empty map.
func (dr *DocxReader) styleOutlineLevels() map[string]int {
	levels := make(map[string]int)
	data, err := dr.GetPart(PartStyles)
	if err != nil {
		return levels
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil || doc.Root() == nil {
		return levels
	}

	direct := make(map[string]int)
	basedOn := make(map[string]string)
	for _, st := range doc.Root().ChildElements() {
		if st.Tag != "style" {
			continue
		}
		id := attr(st, "styleId")
		basedOn[id], _ = val(st, "basedOn")
		if lvl, ok := val(child(st, "pPr"), "outlineLvl"); ok {
			if n, err := strconv.Atoi(lvl); err == nil {
				direct[id] = n + 1
			}
		}
	}

	for id := range basedOn {
		seen := make(map[string]bool)
		for cur := id; cur != "" && !seen[cur]; cur = basedOn[cur] {
			if n, ok := direct[cur]; ok {
				levels[id] = n
				break
			}
			seen[cur] = true
		}
	}
	return levels
}

// child returns the first child element with the given local name.
func child(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// val returns the w:val attribute of the named child, if present.
func val(el *etree.Element, tag string) (string, bool) {
	c := child(el, tag)
	if c == nil {
		return "", false
	}
	return attr(c, "val"), true
}

// attr reads an attribute by local name, whatever its prefix.
func attr(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

func paragraphNode(p *etree.Element, levels map[string]int) OutlineNode {
	node := OutlineNode{Kind: NodeParagraph}
	pPr := child(p, "pPr")
	node.Style, _ = val(pPr, "pStyle")

	var text strings.Builder
	pageBreak := false
	for _, r := range p.ChildElements() {
		if r.Tag != "r" {
			continue
		}
		var runText strings.Builder
		for _, c := range r.ChildElements() {
			switch c.Tag {
			case "t":
				runText.WriteString(c.Text())
			case "br":
				if t := attr(c, "type"); t == "page" {
					pageBreak = true
				} else if t == "" || t == "textWrapping" {
					runText.WriteByte('\n')
				}
			case "tab":
				runText.WriteByte('\t')
			}
		}
		node.Runs = append(node.Runs, runText.String())
		text.WriteString(runText.String())
	}
	node.Text = text.String()

	switch {
	case pageBreak:
		node.Kind = NodePageBreak
	case child(pPr, "pBdr") != nil:
		node.Kind = NodeRule
		if bottom := child(child(pPr, "pBdr"), "bottom"); bottom != nil {
			node.BorderColor = attr(bottom, "color")
		}
	case child(pPr, "numPr") != nil:
		node.Kind = NodeListItem
		numPr := child(pPr, "numPr")
		lvl, _ := val(numPr, "ilvl")
		id, _ := val(numPr, "numId")
		node.Level, _ = strconv.Atoi(lvl)
		node.NumID, _ = strconv.Atoi(id)
	default:
		if level := outlineLevel(pPr, node.Style, levels); level > 0 {
			node.Kind = NodeHeading
			node.Level = level
		}
	}
	return node
}

// outlineLevel returns the 1-based heading level of a paragraph: its own
// w:outlineLvl, then its style's, then a Heading<N> style ID. Zero means
// body text.
func outlineLevel(pPr *etree.Element, style string, levels map[string]int) int {
	if lvl, ok := val(pPr, "outlineLvl"); ok {
		if n, err := strconv.Atoi(lvl); err == nil && n < 9 {
			return n + 1
		}
	}
	if n, ok := levels[style]; ok && n < 10 {
		return n
	}
	if strings.HasPrefix(style, "Heading") {
		if n, err := strconv.Atoi(strings.TrimPrefix(style, "Heading")); err == nil {
			return n
		}
	}
	return 0
}

func tableNode(tbl *etree.Element) OutlineNode {
	node := OutlineNode{Kind: NodeTable}
	if grid := child(tbl, "tblGrid"); grid != nil {
		for _, col := range grid.ChildElements() {
			if col.Tag == "gridCol" {
				w, _ := strconv.Atoi(attr(col, "w"))
				node.Columns = append(node.Columns, w)
			}
		}
	}
	if style, ok := val(child(tbl, "tblPr"), "tblStyle"); ok {
		node.Style = style
	}

	for _, tr := range tbl.ChildElements() {
		if tr.Tag != "tr" {
			continue
		}
		var cells, fills []string
		for _, tc := range tr.ChildElements() {
			if tc.Tag != "tc" {
				continue
			}
			var paras []string
			for _, p := range tc.ChildElements() {
				if p.Tag == "p" {
					paras = append(paras, paragraphNode(p, nil).Text)
				}
			}
			cells = append(cells, strings.Join(paras, "\n"))

			fill := ""
			if shd := child(child(tc, "tcPr"), "shd"); shd != nil {
				fill = attr(shd, "fill")
			}
			fills = append(fills, fill)
		}
		node.Cells = append(node.Cells, cells)
		node.Fills = append(node.Fills, fills)
	}
	return node
}
