package compose

import (
	"fmt"
)

// StyleType is the kind of a registered style
type StyleType string

// Style types
const (
	ParagraphStyle StyleType = "paragraph"
	CharacterStyle StyleType = "character"
	TableStyle     StyleType = "table"
)

// Built-in style IDs
const (
	StyleNormal        = "Normal"
	StyleTitle         = "Title"
	StyleSubtitle      = "Subtitle"
	StyleListParagraph = "ListParagraph"
	StyleCaption       = "Caption"
	StyleTableGrid     = "TableGrid"
)

// MaxHeadingLevel is the deepest heading level with a pre-seeded style
const MaxHeadingLevel = 4

// HeadingStyleID returns the style ID of a heading level
func HeadingStyleID(level int) string {
	return fmt.Sprintf("Heading%d", level)
}

// StyleSpec describes the formatting of a named style
type StyleSpec struct {
	Name          string    `validate:"required"`
	Type          StyleType `validate:"omitempty,oneof=paragraph character table"`
	FontFamily    string
	PointSize     float64 `validate:"gte=0,lte=1638"`
	ColorRGB      string  `validate:"omitempty,rgb"`
	Bold          bool
	Italic        bool
	SpaceBeforePt float64 `validate:"gte=0,lte=1584"`
	SpaceAfterPt  float64 `validate:"gte=0,lte=1584"`
	BasedOn       string
	Next          string
	// OutlineLevel is the 1-based outline level, 0 for body text.
	OutlineLevel int `validate:"gte=0,lte=9"`
	KeepNext     bool
}

// kind returns the style type, defaulting to paragraph
func (s StyleSpec) kind() StyleType {
	if s.Type == "" {
		return ParagraphStyle
	}
	return s.Type
}

// StyleOverride is a partial StyleSpec; nil fields keep the base value
type StyleOverride struct {
	Name          *string
	Type          *StyleType
	FontFamily    *string
	PointSize     *float64
	ColorRGB      *string
	Bold          *bool
	Italic        *bool
	SpaceBeforePt *float64
	SpaceAfterPt  *float64
	BasedOn       *string
	Next          *string
	OutlineLevel  *int
	KeepNext      *bool
}

// Apply returns base with every non-nil field of o applied
func (o StyleOverride) Apply(base StyleSpec) StyleSpec {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setB := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}

	set(&base.Name, o.Name)
	if o.Type != nil {
		base.Type = *o.Type
	}
	set(&base.FontFamily, o.FontFamily)
	setF(&base.PointSize, o.PointSize)
	set(&base.ColorRGB, o.ColorRGB)
	setB(&base.Bold, o.Bold)
	setB(&base.Italic, o.Italic)
	setF(&base.SpaceBeforePt, o.SpaceBeforePt)
	setF(&base.SpaceAfterPt, o.SpaceAfterPt)
	set(&base.BasedOn, o.BasedOn)
	set(&base.Next, o.Next)
	if o.OutlineLevel != nil {
		base.OutlineLevel = *o.OutlineLevel
	}
	setB(&base.KeepNext, o.KeepNext)
	return base
}

// StyleRegistry maps style IDs to their specs for one document.
// Registration order is kept so styles.xml is stable.
type StyleRegistry struct {
	config  *Config
	palette Palette
	styles  map[string]StyleSpec
	order   []string
}

// NewStyleRegistry creates a registry pre-seeded from the configuration's
// palette and font
func NewStyleRegistry(cfg *Config) (*StyleRegistry, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	r := &StyleRegistry{
		config:  &c,
		palette: c.Palette.resolved(),
		styles:  make(map[string]StyleSpec),
	}
	for _, def := range defaultStyles(&c) {
		if err := r.Define(def.id, def.spec); err != nil {
			return nil, fmt.Errorf("seed style %s: %w", def.id, err)
		}
	}
	return r, nil
}

type styleDefinition struct {
	id   string
	spec StyleSpec
}

// headingSizes are the point sizes of Heading1..Heading4
var headingSizes = [MaxHeadingLevel]float64{24, 18, 14, 12}

func defaultStyles(c *Config) []styleDefinition {
	p := c.Palette
	defs := []styleDefinition{
		{StyleNormal, StyleSpec{
			Name:         "Normal",
			FontFamily:   c.FontFamily,
			PointSize:    c.BaseSizePt,
			ColorRGB:     p.Text,
			SpaceAfterPt: 8,
		}},
		{StyleTitle, StyleSpec{
			Name:         "Title",
			BasedOn:      StyleNormal,
			Next:         StyleNormal,
			FontFamily:   c.FontFamily,
			PointSize:    28,
			ColorRGB:     p.Accent,
			Bold:         true,
			SpaceAfterPt: 6,
		}},
		{StyleSubtitle, StyleSpec{
			Name:         "Subtitle",
			BasedOn:      StyleNormal,
			Next:         StyleNormal,
			FontFamily:   c.FontFamily,
			PointSize:    16,
			ColorRGB:     p.Muted,
			SpaceAfterPt: 12,
		}},
	}

	for i, size := range headingSizes {
		level := i + 1
		before := 12.0
		if level == 1 {
			before = 18
		}
		defs = append(defs, styleDefinition{HeadingStyleID(level), StyleSpec{
			Name:          fmt.Sprintf("heading %d", level),
			BasedOn:       StyleNormal,
			Next:          StyleNormal,
			FontFamily:    c.FontFamily,
			PointSize:     size,
			ColorRGB:      p.Accent,
			Bold:          true,
			SpaceBeforePt: before,
			SpaceAfterPt:  6,
			OutlineLevel:  level,
			KeepNext:      true,
		}})
	}

	defs = append(defs,
		styleDefinition{StyleListParagraph, StyleSpec{
			Name:         "List Paragraph",
			BasedOn:      StyleNormal,
			SpaceAfterPt: 4,
		}},
		styleDefinition{StyleCaption, StyleSpec{
			Name:         "caption",
			BasedOn:      StyleNormal,
			Next:         StyleNormal,
			PointSize:    9,
			ColorRGB:     p.Muted,
			Italic:       true,
			SpaceAfterPt: 10,
		}},
		styleDefinition{StyleTableGrid, StyleSpec{
			Name: "Table Grid",
			Type: TableStyle,
		}},
	)
	return defs
}

// Define registers or overrides a style
func (r *StyleRegistry) Define(id string, spec StyleSpec) error {
	if id == "" {
		return NewConfigurationError(CodeInvalidStyle, id, "style ID is empty")
	}
	spec.ColorRGB = NormalizeColor(spec.ColorRGB)
	if err := validate.Struct(spec); err != nil {
		code := CodeInvalidStyle
		if spec.ColorRGB != "" && !isRGB(spec.ColorRGB) {
			code = CodeInvalidColor
		}
		return &ConfigurationError{Code: code, Style: id, Block: noBlock, Cause: err}
	}
	if reservedStyles[id] {
		return NewConfigurationError(CodeInvalidStyle, id, "style ID is reserved for a built-in style")
	}
	for _, ref := range []string{spec.BasedOn, spec.Next} {
		if ref == "" || ref == id {
			continue
		}
		if _, ok := r.styles[ref]; !ok {
			return &ConfigurationError{Code: CodeUnknownStyle, Style: ref, Message: "style references unknown style", Block: noBlock}
		}
	}

	if r.inherits(spec.BasedOn, id) {
		return &ConfigurationError{Code: CodeInvalidStyle, Style: id, Message: "style inheritance forms a cycle", Block: noBlock}
	}

	if _, exists := r.styles[id]; !exists {
		r.order = append(r.order, id)
	}
	r.styles[id] = spec
	return nil
}

// inherits reports whether the BasedOn chain starting at from reaches id.
func (r *StyleRegistry) inherits(from, id string) bool {
	seen := make(map[string]bool)
	for cur := from; cur != "" && !seen[cur]; cur = r.styles[cur].BasedOn {
		if cur == id {
			return true
		}
		seen[cur] = true
	}
	return false
}

// Resolve returns the definition of a registered style
func (r *StyleRegistry) Resolve(id string) (StyleSpec, error) {
	spec, ok := r.styles[id]
	if !ok {
		return StyleSpec{}, &ConfigurationError{Code: CodeUnknownStyle, Style: id, Block: noBlock}
	}
	return spec, nil
}

// resolveKind resolves a style and checks it has the expected type
func (r *StyleRegistry) resolveKind(id string, kind StyleType) (StyleSpec, error) {
	spec, err := r.Resolve(id)
	if err != nil {
		return spec, err
	}
	if spec.kind() != kind {
		return spec, &ConfigurationError{
			Code:    CodeInvalidStyle,
			Style:   id,
			Message: fmt.Sprintf("expected a %s style, got %s", kind, spec.kind()),
			Block:   noBlock,
		}
	}
	return spec, nil
}

// Has reports whether a style is registered
func (r *StyleRegistry) Has(id string) bool {
	_, ok := r.styles[id]
	return ok
}

// IDs returns the registered style IDs in registration order
func (r *StyleRegistry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Palette returns the validated palette
func (r *StyleRegistry) Palette() Palette {
	return r.palette
}

// Config returns the configuration the registry was seeded from
func (r *StyleRegistry) Config() *Config {
	return r.config
}
