// Package plan loads content plans from YAML or TOML files.
//
// A plan file holds document metadata, style overrides and an ordered list of
// blocks tagged by type:
//
//	meta:
//	  title: Project Scope
//	styles:
//	  Heading1: {color: "0F766E"}
//	blocks:
//	  - {type: heading, level: 1, text: Executive Summary}
//	  - type: paragraph
//	    runs:
//	      - {text: "Timeline: ", bold: true}
//	      - {text: 2-3 weeks}
//	  - {type: bullet_list, items: [Admin portal, Client portal]}
//	  - type: table
//	    source: {path: pricing.xlsx, sheet: Rates}
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/benjaminschreck/go-compose/pkg/compose"
	"github.com/benjaminschreck/go-compose/pkg/compose/render"
)

// Format is the encoding of a plan file
type Format string

// Supported plan formats
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Block type names accepted in plan files
const (
	TypeHeading   = "heading"
	TypeParagraph = "paragraph"
	TypeBullets   = "bullet_list"
	TypeNumbered  = "numbered_list"
	TypeTable     = "table"
	TypeRule      = "rule"
	TypePageBreak = "page_break"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", compose.NewConfigurationError(compose.CodeInvalidConfig, "",
		fmt.Sprintf("unsupported plan format %q", filepath.Ext(path)))
}

type planFile struct {
	Meta   metaFile             `yaml:"meta" toml:"meta"`
	Styles map[string]styleFile `yaml:"styles" toml:"styles"`
	Blocks []blockFile          `yaml:"blocks" toml:"blocks"`
}

type metaFile struct {
	Title       string    `yaml:"title" toml:"title"`
	Subject     string    `yaml:"subject" toml:"subject"`
	Author      string    `yaml:"author" toml:"author"`
	Description string    `yaml:"description" toml:"description"`
	Keywords    []string  `yaml:"keywords" toml:"keywords"`
	Created     time.Time `yaml:"created" toml:"created"`
}

type styleFile struct {
	Name         *string  `yaml:"name" toml:"name"`
	Type         *string  `yaml:"type" toml:"type"`
	Font         *string  `yaml:"font" toml:"font"`
	Size         *float64 `yaml:"size" toml:"size"`
	Color        *string  `yaml:"color" toml:"color"`
	Bold         *bool    `yaml:"bold" toml:"bold"`
	Italic       *bool    `yaml:"italic" toml:"italic"`
	SpaceBefore  *float64 `yaml:"space_before" toml:"space_before"`
	SpaceAfter   *float64 `yaml:"space_after" toml:"space_after"`
	BasedOn      *string  `yaml:"based_on" toml:"based_on"`
	Next         *string  `yaml:"next" toml:"next"`
	OutlineLevel *int     `yaml:"outline_level" toml:"outline_level"`
	KeepNext     *bool    `yaml:"keep_next" toml:"keep_next"`
}

type runFile struct {
	Text      string  `yaml:"text" toml:"text"`
	Bold      *bool   `yaml:"bold" toml:"bold"`
	Italic    *bool   `yaml:"italic" toml:"italic"`
	Color     string  `yaml:"color" toml:"color"`
	Size      float64 `yaml:"size" toml:"size"`
	Underline bool    `yaml:"underline" toml:"underline"`
	Style     string  `yaml:"style" toml:"style"`
}

type entryFile struct {
	Text  string    `yaml:"text" toml:"text"`
	Runs  []runFile `yaml:"runs" toml:"runs"`
	Level int       `yaml:"level" toml:"level"`
}

type sourceFile struct {
	Path  string `yaml:"path" toml:"path"`
	Sheet string `yaml:"sheet" toml:"sheet"`
}

// blockFile is the union of every block's fields; Type selects which apply.
type blockFile struct {
	Type  string `yaml:"type" toml:"type"`
	Style string `yaml:"style" toml:"style"`
	Align string `yaml:"align" toml:"align"`

	// heading, paragraph
	Level        int       `yaml:"level" toml:"level"`
	Text         string    `yaml:"text" toml:"text"`
	Runs         []runFile `yaml:"runs" toml:"runs"`
	Indent       string    `yaml:"indent" toml:"indent"`
	SpaceBefore  *float64  `yaml:"space_before" toml:"space_before"`
	SpaceAfter   *float64  `yaml:"space_after" toml:"space_after"`
	KeepWithNext bool      `yaml:"keep_with_next" toml:"keep_with_next"`

	// bullet_list, numbered_list
	Items   []string    `yaml:"items" toml:"items"`
	Entries []entryFile `yaml:"entries" toml:"entries"`
	Start   int         `yaml:"start" toml:"start"`

	// table
	Header          []string    `yaml:"header" toml:"header"`
	Rows            [][]string  `yaml:"rows" toml:"rows"`
	Shading         [][]string  `yaml:"shading" toml:"shading"`
	Widths          []string    `yaml:"widths" toml:"widths"`
	HeaderFill      string      `yaml:"header_fill" toml:"header_fill"`
	HeaderColor     string      `yaml:"header_color" toml:"header_color"`
	BoldFirstColumn bool        `yaml:"bold_first_column" toml:"bold_first_column"`
	Source          *sourceFile `yaml:"source" toml:"source"`

	// rule
	Color string `yaml:"color" toml:"color"`
}

// Load reads a plan file. Relative spreadsheet sources resolve against the
// plan file's directory.
func Load(path string) (compose.Plan, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return compose.Plan{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return compose.Plan{}, compose.NewIOError("read plan", path, err)
	}

	p, err := Parse(data, format, filepath.Dir(path))
	if err != nil {
		return compose.Plan{}, compose.WithContext(err, "load plan", map[string]interface{}{"path": path})
	}
	logger := compose.GetLogger("plan")
	logger.Debug().Str("path", path).Int("blocks", len(p.Blocks)).Msg("Plan loaded")
	return p, nil
}

// Parse decodes plan data. baseDir resolves relative spreadsheet sources.
func Parse(data []byte, format Format, baseDir string) (compose.Plan, error) {
	var file planFile
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return compose.Plan{}, fmt.Errorf("failed to decode YAML plan: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return compose.Plan{}, fmt.Errorf("failed to decode TOML plan: %w", err)
		}
	default:
		return compose.Plan{}, compose.NewConfigurationError(compose.CodeInvalidConfig, "",
			fmt.Sprintf("unsupported plan format %q", format))
	}

	p := compose.Plan{
		Meta: compose.Meta{
			Title:       file.Meta.Title,
			Subject:     file.Meta.Subject,
			Author:      file.Meta.Author,
			Description: file.Meta.Description,
			Keywords:    file.Meta.Keywords,
			Created:     file.Meta.Created,
		},
	}

	if len(file.Styles) > 0 {
		p.Styles = make(map[string]compose.StyleOverride, len(file.Styles))
		for id, s := range file.Styles {
			p.Styles[id] = s.override()
		}
	}

	for i, b := range file.Blocks {
		block, err := b.block(baseDir)
		if err != nil {
			return compose.Plan{}, fmt.Errorf("block %d (%s): %w", i, b.Type, err)
		}
		p.Blocks = append(p.Blocks, block)
	}
	return p, nil
}

func (s styleFile) override() compose.StyleOverride {
	o := compose.StyleOverride{
		Name:          s.Name,
		FontFamily:    s.Font,
		PointSize:     s.Size,
		ColorRGB:      s.Color,
		Bold:          s.Bold,
		Italic:        s.Italic,
		SpaceBeforePt: s.SpaceBefore,
		SpaceAfterPt:  s.SpaceAfter,
		BasedOn:       s.BasedOn,
		Next:          s.Next,
		OutlineLevel:  s.OutlineLevel,
		KeepNext:      s.KeepNext,
	}
	if s.Type != nil {
		t := compose.StyleType(*s.Type)
		o.Type = &t
	}
	return o
}

func (b blockFile) block(baseDir string) (compose.Block, error) {
	switch strings.ToLower(b.Type) {
	case TypeHeading:
		return compose.Heading{
			Level: b.Level,
			Text:  b.Text,
			Style: b.Style,
			Align: compose.Alignment(b.Align),
		}, nil

	case TypeParagraph:
		p := compose.Paragraph{
			Runs:         runs(b.Text, b.Runs),
			Style:        b.Style,
			Align:        compose.Alignment(b.Align),
			SpaceBefore:  b.SpaceBefore,
			SpaceAfter:   b.SpaceAfter,
			KeepWithNext: b.KeepWithNext,
		}
		if b.Indent != "" {
			indent, err := render.ParseLength(b.Indent)
			if err != nil {
				return nil, invalidField("indent", err)
			}
			p.Indent = indent
		}
		return p, nil

	case TypeBullets:
		return compose.BulletList{Items: b.listItems()}, nil

	case TypeNumbered:
		return compose.NumberedList{Items: b.listItems(), Start: b.Start}, nil

	case TypeTable:
		return b.table(baseDir)

	case TypeRule:
		return compose.Rule{ColorRGB: b.Color}, nil

	case TypePageBreak, "pagebreak":
		return compose.PageBreak{}, nil
	}

	return nil, &compose.ShapeError{
		Code:    compose.CodeUnknownBlock,
		Message: fmt.Sprintf("unknown block type %q", b.Type),
		Block:   -1,
		Row:     -1,
	}
}

// runs converts run entries, falling back to a single plain run of text.
func runs(text string, files []runFile) []compose.RunSpec {
	if len(files) == 0 {
		if text == "" {
			return nil
		}
		return []compose.RunSpec{compose.Text(text)}
	}
	specs := make([]compose.RunSpec, 0, len(files))
	for _, r := range files {
		specs = append(specs, compose.RunSpec{
			Text:      r.Text,
			Bold:      r.Bold,
			Italic:    r.Italic,
			ColorRGB:  r.Color,
			SizePt:    r.Size,
			Underline: r.Underline,
			Style:     r.Style,
		})
	}
	return specs
}

// listItems returns the plain items followed by the structured entries.
func (b blockFile) listItems() []compose.ListItem {
	items := make([]compose.ListItem, 0, len(b.Items)+len(b.Entries))
	for _, text := range b.Items {
		items = append(items, compose.Item(text))
	}
	for _, e := range b.Entries {
		items = append(items, compose.ListItem{Runs: runs(e.Text, e.Runs), Level: e.Level})
	}
	return items
}

func (b blockFile) table(baseDir string) (compose.Block, error) {
	t := compose.Table{
		Header:          b.Header,
		Rows:            b.Rows,
		Shading:         b.Shading,
		HeaderFill:      b.HeaderFill,
		HeaderColor:     b.HeaderColor,
		BoldFirstColumn: b.BoldFirstColumn,
		Style:           b.Style,
	}

	for _, w := range b.Widths {
		width, err := render.ParseLength(w)
		if err != nil {
			return nil, invalidField("widths", err)
		}
		t.ColumnWidths = append(t.ColumnWidths, width)
	}

	if b.Source != nil {
		path := b.Source.Path
		if path != "" && !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		header, rows, err := ReadSheet(path, b.Source.Sheet)
		if err != nil {
			return nil, err
		}
		if len(t.Header) == 0 {
			t.Header = header
		} else {
			rows = append([][]string{header}, rows...)
		}
		t.Rows = append(t.Rows, rows...)
	}
	return t, nil
}

func invalidField(field string, err error) error {
	return &compose.ConfigurationError{
		Code:    compose.CodeInvalidConfig,
		Message: "invalid " + field,
		Block:   -1,
		Cause:   err,
	}
}
