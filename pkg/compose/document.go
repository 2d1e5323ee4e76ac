package compose

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/benjaminschreck/go-compose/pkg/compose/render"
	"github.com/benjaminschreck/go-compose/pkg/compose/xml"
)

// State is the lifecycle state of a Document
type State int

// Document states. Transitions only move forward.
const (
	StateCreated State = iota
	StateStyling
	StateComposing
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStyling:
		return "styling"
	case StateComposing:
		return "composing"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Meta is the document metadata written to docProps/core.xml
type Meta struct {
	Title       string
	Subject     string
	Author      string
	Description string
	Keywords    []string
	// Created defaults to the session start time
	Created time.Time
}

// Option configures a Document
type Option func(*Document)

// WithConfig sets the configuration used to seed styles and page geometry
func WithConfig(cfg *Config) Option {
	return func(d *Document) {
		if cfg != nil {
			d.config = cfg
		}
	}
}

// WithMeta sets the document metadata
func WithMeta(meta Meta) Option {
	return func(d *Document) {
		d.meta = meta
	}
}

// WithClock sets the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(d *Document) {
		if now != nil {
			d.now = now
		}
	}
}

// WithLogger sets the logger of the document
func WithLogger(l zerolog.Logger) Option {
	return func(d *Document) {
		d.logger = l
	}
}

// Document assembles one .docx package. It owns its style registry,
// numbering and node tree; nothing is shared between documents.
// A Document is not safe for concurrent use.
type Document struct {
	config    *Config
	meta      Meta
	styles    *StyleRegistry
	numbering *numbering
	tree      *xml.Document
	nodes     map[xml.Patchable]struct{}
	section   *xml.SectionProperties
	state     State
	blocks    int
	logger    zerolog.Logger
	now       func() time.Time
}

// New creates a document in the Created state
func New(opts ...Option) (*Document, error) {
	d := &Document{
		config:    DefaultConfig(),
		numbering: newNumbering(),
		tree:      xml.NewDocument(),
		nodes:     make(map[xml.Patchable]struct{}),
		now:       time.Now,
		logger:    GetLogger("assembler"),
	}
	for _, opt := range opts {
		opt(d)
	}

	styles, err := NewStyleRegistry(d.config)
	if err != nil {
		return nil, err
	}
	d.styles = styles
	d.config = styles.Config()
	d.section = sectionProperties(d.config)
	if d.meta.Created.IsZero() {
		d.meta.Created = d.now()
	}
	return d, nil
}

// sectionProperties derives page geometry from the configuration
func sectionProperties(cfg *Config) *xml.SectionProperties {
	page, ok := render.PageSizes[cfg.PageSize]
	if !ok {
		page = render.PageSizes["letter"]
	}
	margin := render.Inches(cfg.MarginsIn).Twips()
	half := render.Inches(0.5).Twips()
	return &xml.SectionProperties{
		PageWidth:    page.Width.Twips(),
		PageHeight:   page.Height.Twips(),
		MarginTop:    margin,
		MarginRight:  margin,
		MarginBottom: margin,
		MarginLeft:   margin,
		MarginHeader: half,
		MarginFooter: half,
	}
}

// State returns the current lifecycle state
func (d *Document) State() State {
	return d.state
}

// Styles returns the document's style registry
func (d *Document) Styles() *StyleRegistry {
	return d.styles
}

// Tree returns the document's node tree. Callers must not modify it.
func (d *Document) Tree() *xml.Document {
	return d.tree
}

// Len returns the number of blocks composed so far
func (d *Document) Len() int {
	return d.blocks
}

// DefineStyle registers or overrides a style. Styles are frozen once the
// first block has been composed.
func (d *Document) DefineStyle(id string, spec StyleSpec) error {
	switch d.state {
	case StateFinalized:
		return &StateError{Code: CodeDocumentClosed, Operation: "define style " + id, State: d.state}
	case StateComposing:
		return &StateError{Code: CodeStylesFrozen, Operation: "define style " + id, State: d.state}
	}
	if err := d.styles.Define(id, spec); err != nil {
		return err
	}
	d.state = StateStyling
	d.logger.Debug().Str("style", id).Msg("Style defined")
	return nil
}

// Compose validates and builds every block, then appends them in order.
// If any block fails, nothing is appended and the returned error carries
// the index of the failing block within this call.
func (d *Document) Compose(blocks ...Block) error {
	if d.state == StateFinalized {
		return &StateError{Code: CodeDocumentClosed, Operation: "compose", State: d.state}
	}

	b := &builder{
		doc:       d,
		styles:    d.styles,
		nums:      d.numbering.begin(),
		textWidth: render.Twips(d.section.TextWidth()),
	}

	staged := make([]xml.BodyElement, 0, len(blocks))
	for i, block := range blocks {
		kind := "nil"
		if !isNilBlock(block) {
			kind = block.Kind()
		}
		d.logger.Debug().Int("block", d.blocks+i).Str("kind", kind).Msg("Dispatching block")

		elements, err := b.build(block)
		if err != nil {
			err = withBlock(err, i)
			d.logger.Debug().Err(err).Int("block", i).Msg("Block rejected")
			return err
		}
		staged = append(staged, elements...)
	}

	d.tree.Body.Append(staged...)
	d.adopt(staged)
	b.nums.commit()
	d.blocks += len(blocks)
	if len(blocks) > 0 {
		d.state = StateComposing
	}
	return nil
}

// Finalize appends the section properties. It is terminal: later Compose,
// DefineStyle and Finalize calls fail with DOCUMENT_CLOSED.
func (d *Document) Finalize() error {
	if d.state == StateFinalized {
		return &StateError{Code: CodeDocumentClosed, Operation: "finalize", State: d.state}
	}
	d.tree.Body.SectionProperties = d.section
	d.state = StateFinalized
	d.logger.Debug().Int("blocks", d.blocks).Msg("Document finalized")
	return nil
}
