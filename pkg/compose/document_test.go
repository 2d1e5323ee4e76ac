package compose

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStateMachine(t *testing.T) {
	doc := newTestDocument(t)
	assert.Equal(t, StateCreated, doc.State())

	require.NoError(t, doc.DefineStyle("Callout", StyleSpec{Name: "Callout", BasedOn: StyleNormal}))
	assert.Equal(t, StateStyling, doc.State())

	// An empty Compose call does not freeze styles
	require.NoError(t, doc.Compose())
	assert.Equal(t, StateStyling, doc.State())

	require.NoError(t, doc.Compose(Heading{Level: 1, Text: "Scope"}))
	assert.Equal(t, StateComposing, doc.State())
	assert.Equal(t, 1, doc.Len())

	err := doc.DefineStyle("Late", StyleSpec{Name: "Late"})
	assert.True(t, errors.Is(err, ErrStylesFrozen))
	assert.False(t, doc.Styles().Has("Late"))

	require.NoError(t, doc.Compose(Paragraph{Runs: []RunSpec{Text("more")}}))
	assert.Equal(t, 2, doc.Len())

	require.NoError(t, doc.Finalize())
	assert.Equal(t, StateFinalized, doc.State())
}

func TestDocumentClosedAfterFinalize(t *testing.T) {
	doc := newTestDocument(t)
	require.NoError(t, doc.Compose(Heading{Level: 1, Text: "Scope"}))
	require.NoError(t, doc.Finalize())
	before := len(doc.Tree().Body.Elements)

	tests := []struct {
		name string
		call func() error
	}{
		{"compose", func() error { return doc.Compose(Paragraph{Runs: []RunSpec{Text("late")}}) }},
		{"compose invalid block", func() error { return doc.Compose(Heading{Level: 9}) }},
		{"define style", func() error { return doc.DefineStyle("Late", StyleSpec{Name: "Late"}) }},
		{"finalize twice", doc.Finalize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDocumentClosed))

			var stateErr *StateError
			require.True(t, errors.As(err, &stateErr))
			assert.Equal(t, StateFinalized, stateErr.State)
			assert.Len(t, doc.Tree().Body.Elements, before)
		})
	}
}

func TestComposeIsAllOrNothing(t *testing.T) {
	doc := newTestDocument(t)
	require.NoError(t, doc.Compose(Heading{Level: 1, Text: "Kept"}))

	err := doc.Compose(
		Paragraph{Runs: []RunSpec{Text("staged")}},
		NumberedList{Items: []ListItem{Item("staged item")}},
		Table{Header: []string{"A", "B"}, Rows: [][]string{{"only one"}}},
	)
	require.Error(t, err)

	var shape *ShapeError
	require.True(t, errors.As(err, &shape))
	assert.Equal(t, 2, shape.Block)
	assert.Equal(t, 0, shape.Row)
	assert.Equal(t, 2, shape.Expected)
	assert.Equal(t, 1, shape.Actual)

	assert.Len(t, doc.Tree().Body.Elements, 1)
	assert.Equal(t, 1, doc.Len())
	assert.Len(t, doc.numbering.instances, 1, "staged numbering is discarded")

	// The session remains usable
	require.NoError(t, doc.Compose(NumberedList{Items: []ListItem{Item("first")}}))
	assert.Equal(t, 2, bodyParagraph(t, doc, 1).Properties.Numbering.NumID)
}

func TestFinalizeEmptyDocument(t *testing.T) {
	doc := newTestDocument(t)
	require.NoError(t, doc.Finalize())

	body := doc.Tree().Body
	assert.Empty(t, body.Elements)
	require.NotNil(t, body.SectionProperties)
	assert.Equal(t, 12240, body.SectionProperties.PageWidth)
}

func TestSectionPropertiesFromConfig(t *testing.T) {
	tests := []struct {
		name       string
		pageSize   string
		margins    float64
		wantWidth  int
		wantHeight int
		wantMargin int
	}{
		{"letter", "letter", 1, 12240, 15840, 1440},
		{"legal", "legal", 0.5, 12240, 20160, 720},
		{"a4", "a4", 0.75, 11906, 16838, 1080},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.PageSize = tt.pageSize
			cfg.MarginsIn = tt.margins

			doc := newTestDocument(t, WithConfig(cfg))
			require.NoError(t, doc.Finalize())

			sect := doc.Tree().Body.SectionProperties
			assert.Equal(t, tt.wantWidth, sect.PageWidth)
			assert.Equal(t, tt.wantHeight, sect.PageHeight)
			assert.Equal(t, tt.wantMargin, sect.MarginLeft)
			assert.Equal(t, tt.wantMargin, sect.MarginTop)
			assert.Equal(t, 720, sect.MarginHeader)
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseSizePt = -3

	doc, err := New(WithConfig(cfg))
	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestDocumentsShareNothing(t *testing.T) {
	a := newTestDocument(t)
	b := newTestDocument(t)

	require.NoError(t, a.DefineStyle("Callout", StyleSpec{Name: "Callout"}))
	require.NoError(t, a.Compose(NumberedList{Items: []ListItem{Item("a")}}))

	assert.False(t, b.Styles().Has("Callout"))
	assert.Len(t, b.numbering.instances, 1)
	assert.Empty(t, b.Tree().Body.Elements)
}

func TestDocumentOptions(t *testing.T) {
	stamp := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)

	doc := newTestDocument(t,
		WithMeta(Meta{Title: "Scope"}),
		WithClock(func() time.Time { return stamp }),
		WithLogger(logger),
	)
	assert.Equal(t, stamp, doc.meta.Created)
	assert.Equal(t, "Scope", doc.meta.Title)

	require.NoError(t, doc.Compose(Heading{Level: 1, Text: "x"}, Rule{}))
	out := logs.String()
	assert.Equal(t, 2, strings.Count(out, "Dispatching block"))
	assert.Contains(t, out, `"kind":"rule"`)

	// An explicit creation time wins over the clock
	created := stamp.Add(-time.Hour)
	doc = newTestDocument(t, WithMeta(Meta{Created: created}), WithClock(func() time.Time { return stamp }))
	assert.Equal(t, created, doc.meta.Created)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "created", StateCreated.String())
	assert.Equal(t, "styling", StateStyling.String())
	assert.Equal(t, "composing", StateComposing.String())
	assert.Equal(t, "finalized", StateFinalized.String())
	assert.Equal(t, "state(9)", State(9).String())
}
