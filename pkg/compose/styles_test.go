package compose

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *StyleRegistry {
	t.Helper()
	r, err := NewStyleRegistry(nil)
	require.NoError(t, err)
	return r
}

func TestStyleRegistrySeeds(t *testing.T) {
	r := newTestRegistry(t)

	assert.Equal(t, []string{
		"Normal", "Title", "Subtitle",
		"Heading1", "Heading2", "Heading3", "Heading4",
		"ListParagraph", "Caption", "TableGrid",
	}, r.IDs())

	tests := []struct {
		id     string
		size   float64
		before float64
		color  string
	}{
		{"Heading1", 24, 18, "7C3AED"},
		{"Heading2", 18, 12, "7C3AED"},
		{"Heading3", 14, 12, "7C3AED"},
		{"Heading4", 12, 12, "7C3AED"},
		{"Normal", 11, 0, "333333"},
		{"Subtitle", 16, 0, "666666"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			spec, err := r.Resolve(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.size, spec.PointSize)
			assert.Equal(t, tt.before, spec.SpaceBeforePt)
			assert.Equal(t, tt.color, spec.ColorRGB)
			assert.Equal(t, "Calibri", spec.FontFamily)
		})
	}

	h1, _ := r.Resolve("Heading1")
	assert.True(t, h1.Bold)
	assert.True(t, h1.KeepNext)
	assert.Equal(t, 1, h1.OutlineLevel)
	assert.Equal(t, 6.0, h1.SpaceAfterPt)
}

func TestStyleRegistryUsesConfiguredPalette(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FontFamily = "Georgia"
	cfg.Palette.Accent = "#1d4ed8"

	r, err := NewStyleRegistry(cfg)
	require.NoError(t, err)

	h2, err := r.Resolve(HeadingStyleID(2))
	require.NoError(t, err)
	assert.Equal(t, "1D4ED8", h2.ColorRGB)
	assert.Equal(t, "Georgia", h2.FontFamily)
	assert.Equal(t, "1D4ED8", r.Palette().Accent)
	assert.Equal(t, "1D4ED8", r.Palette().HeaderFill, "header fill follows the accent")
	assert.Equal(t, "1D4ED8", r.Palette().Rule, "rule follows the accent")
	assert.Equal(t, "FFFFFF", r.Palette().HeaderText)

	// The caller's config is not modified
	assert.Equal(t, "#1d4ed8", cfg.Palette.Accent)
}

func TestStyleRegistryRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Palette.Muted = "grey"

	_, err := NewStyleRegistry(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidColor))
}

func TestStyleRegistryDefine(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		spec     StyleSpec
		wantCode ErrorCode
		wantRef  string
	}{
		{
			name: "new paragraph style",
			id:   "Callout",
			spec: StyleSpec{Name: "Callout", BasedOn: "Normal", Italic: true, ColorRGB: "#0f766e"},
		},
		{
			name: "character style",
			id:   "Strong",
			spec: StyleSpec{Name: "Strong", Type: CharacterStyle, Bold: true},
		},
		{
			name:     "empty id",
			id:       "",
			spec:     StyleSpec{Name: "x"},
			wantCode: CodeInvalidStyle,
		},
		{
			name:     "missing name",
			id:       "Nameless",
			spec:     StyleSpec{},
			wantCode: CodeInvalidStyle,
		},
		{
			name:     "bad colour",
			id:       "Loud",
			spec:     StyleSpec{Name: "Loud", ColorRGB: "red"},
			wantCode: CodeInvalidColor,
		},
		{
			name:     "negative size",
			id:       "Tiny",
			spec:     StyleSpec{Name: "Tiny", PointSize: -1},
			wantCode: CodeInvalidStyle,
		},
		{
			name:     "unknown type",
			id:       "Odd",
			spec:     StyleSpec{Name: "Odd", Type: "numbering"},
			wantCode: CodeInvalidStyle,
		},
		{
			name:     "unknown basedOn",
			id:       "Child",
			spec:     StyleSpec{Name: "Child", BasedOn: "Parent"},
			wantCode: CodeUnknownStyle,
			wantRef:  "Parent",
		},
		{
			name:     "unknown next",
			id:       "Lead",
			spec:     StyleSpec{Name: "Lead", Next: "Body Text"},
			wantCode: CodeUnknownStyle,
			wantRef:  "Body Text",
		},
		{
			name: "self reference",
			id:   "Loop",
			spec: StyleSpec{Name: "Loop", Next: "Loop"},
		},
		{
			name:     "based on itself",
			id:       "Loop",
			spec:     StyleSpec{Name: "Loop", BasedOn: "Loop"},
			wantCode: CodeInvalidStyle,
		},
		{
			name:     "reserved table style",
			id:       "TableNormal",
			spec:     StyleSpec{Name: "Normal Table", Type: TableStyle},
			wantCode: CodeInvalidStyle,
		},
		{
			name:     "reserved character style",
			id:       "DefaultParagraphFont",
			spec:     StyleSpec{Name: "Default Paragraph Font", Type: CharacterStyle},
			wantCode: CodeInvalidStyle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			err := r.Define(tt.id, tt.spec)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.True(t, r.Has(tt.id))
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, CodeOf(err))
			assert.False(t, r.Has(tt.id))
			if tt.wantRef != "" {
				var cfgErr *ConfigurationError
				require.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, tt.wantRef, cfgErr.Style)
			}
		})
	}
}

func TestStyleRegistryRejectsInheritanceCycle(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Define("Lead", StyleSpec{Name: "Lead", BasedOn: "Heading1"}))

	for _, id := range []string{StyleNormal, "Heading1"} {
		spec, err := r.Resolve(id)
		require.NoError(t, err)
		spec.BasedOn = "Lead"
		err = r.Define(id, spec)
		assert.Equal(t, CodeInvalidStyle, CodeOf(err), id)
	}

	normal, _ := r.Resolve(StyleNormal)
	assert.Empty(t, normal.BasedOn)
	h1, _ := r.Resolve("Heading1")
	assert.Equal(t, StyleNormal, h1.BasedOn)
}

func TestStyleRegistryOverrideKeepsOrder(t *testing.T) {
	r := newTestRegistry(t)
	before := r.IDs()

	spec, err := r.Resolve("Heading1")
	require.NoError(t, err)
	spec.PointSize = 30
	require.NoError(t, r.Define("Heading1", spec))

	assert.Equal(t, before, r.IDs())
	got, _ := r.Resolve("Heading1")
	assert.Equal(t, 30.0, got.PointSize)
}

func TestStyleRegistryResolveUnknown(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Resolve("Heading9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStyle))
	assert.Contains(t, err.Error(), `"Heading9"`)

	// Each failure is a fresh error
	_, err2 := r.Resolve("Heading9")
	assert.NotSame(t, err, err2)
}

func TestStyleRegistryResolveKind(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.resolveKind(StyleTableGrid, ParagraphStyle)
	assert.Equal(t, CodeInvalidStyle, CodeOf(err))

	_, err = r.resolveKind(StyleNormal, TableStyle)
	assert.Equal(t, CodeInvalidStyle, CodeOf(err))

	_, err = r.resolveKind(StyleNormal, ParagraphStyle)
	assert.NoError(t, err)
}

func TestStyleRegistriesAreIndependent(t *testing.T) {
	a := newTestRegistry(t)
	b := newTestRegistry(t)

	require.NoError(t, a.Define("Callout", StyleSpec{Name: "Callout"}))
	assert.True(t, a.Has("Callout"))
	assert.False(t, b.Has("Callout"))
}

func TestStyleOverrideApply(t *testing.T) {
	size := 20.0
	color := "0F766E"
	bold := false
	next := "Normal"

	base := StyleSpec{Name: "heading 1", PointSize: 24, Bold: true, ColorRGB: "7C3AED", Italic: true}
	got := StyleOverride{PointSize: &size, ColorRGB: &color, Bold: &bold, Next: &next}.Apply(base)

	assert.Equal(t, StyleSpec{
		Name:      "heading 1",
		PointSize: 20,
		ColorRGB:  "0F766E",
		Bold:      false,
		Italic:    true,
		Next:      "Normal",
	}, got)

	// Zero override keeps the base
	assert.Equal(t, base, StyleOverride{}.Apply(base))
}

// findStyle returns the w:style element with the given ID.
func findStyle(t *testing.T, root *etree.Element, id string) *etree.Element {
	t.Helper()
	for _, s := range root.SelectElements("style") {
		if s.SelectAttrValue("styleId", "") == id {
			return s
		}
	}
	t.Fatalf("style %s not found", id)
	return nil
}

func TestStylesXML(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Define("Strong", StyleSpec{Name: "Strong", Type: CharacterStyle, Bold: true}))

	data, err := r.StylesXML()
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "styles", root.Tag)

	t.Run("doc defaults", func(t *testing.T) {
		fonts := root.FindElement("./docDefaults/rPrDefault/rPr/rFonts")
		require.NotNil(t, fonts)
		assert.Equal(t, "Calibri", fonts.SelectAttrValue("ascii", ""))
		sz := root.FindElement("./docDefaults/rPrDefault/rPr/sz")
		require.NotNil(t, sz)
		assert.Equal(t, "22", sz.SelectAttrValue("val", ""))
	})

	t.Run("heading", func(t *testing.T) {
		h1 := findStyle(t, root, "Heading1")
		assert.Equal(t, "paragraph", h1.SelectAttrValue("type", ""))
		assert.Equal(t, "Normal", h1.FindElement("./basedOn").SelectAttrValue("val", ""))
		assert.NotNil(t, h1.FindElement("./pPr/keepNext"))
		assert.Equal(t, "0", h1.FindElement("./pPr/outlineLvl").SelectAttrValue("val", ""))
		assert.Equal(t, "360", h1.FindElement("./pPr/spacing").SelectAttrValue("before", ""))
		assert.Equal(t, "120", h1.FindElement("./pPr/spacing").SelectAttrValue("after", ""))
		assert.NotNil(t, h1.FindElement("./rPr/b"))
		assert.Equal(t, "7C3AED", h1.FindElement("./rPr/color").SelectAttrValue("val", ""))
		assert.Equal(t, "48", h1.FindElement("./rPr/sz").SelectAttrValue("val", ""))
	})

	t.Run("normal is default", func(t *testing.T) {
		normal := findStyle(t, root, "Normal")
		assert.Equal(t, "1", normal.SelectAttrValue("default", ""))
		assert.Nil(t, normal.FindElement("./basedOn"))
	})

	t.Run("character style", func(t *testing.T) {
		strong := findStyle(t, root, "Strong")
		assert.Equal(t, "character", strong.SelectAttrValue("type", ""))
		assert.Equal(t, "DefaultParagraphFont", strong.FindElement("./basedOn").SelectAttrValue("val", ""))
		assert.Nil(t, strong.FindElement("./pPr"))
	})

	t.Run("table grid", func(t *testing.T) {
		grid := findStyle(t, root, "TableGrid")
		assert.Equal(t, "table", grid.SelectAttrValue("type", ""))
		assert.Equal(t, "TableNormal", grid.FindElement("./basedOn").SelectAttrValue("val", ""))
		assert.Len(t, grid.FindElements("./tblPr/tblBorders/*"), 6)
	})

	t.Run("built-ins present", func(t *testing.T) {
		findStyle(t, root, "DefaultParagraphFont")
		findStyle(t, root, "TableNormal")
	})
}
