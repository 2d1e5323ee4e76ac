package compose

import (
	"fmt"
	"reflect"

	"github.com/benjaminschreck/go-compose/pkg/compose/render"
	"github.com/benjaminschreck/go-compose/pkg/compose/xml"
)

// ruleBorderSize is the rule thickness in eighths of a point.
const ruleBorderSize = 12

// builder turns blocks into body elements for one Compose call. It stages
// numbering allocations and retains no nodes after the call.
type builder struct {
	doc       *Document
	styles    *StyleRegistry
	nums      *numberingTx
	textWidth render.Length
}

// build dispatches a block to its builder
func (b *builder) build(block Block) ([]xml.BodyElement, error) {
	if isNilBlock(block) {
		block = nil
	}
	switch v := block.(type) {
	case Heading:
		return b.heading(v)
	case *Heading:
		return b.heading(*v)
	case Paragraph:
		return b.paragraph(v)
	case *Paragraph:
		return b.paragraph(*v)
	case BulletList:
		return b.list(v.Items, bulletNumID)
	case *BulletList:
		return b.list(v.Items, bulletNumID)
	case NumberedList:
		return b.numberedList(v)
	case *NumberedList:
		return b.numberedList(*v)
	case Table:
		return b.table(v)
	case *Table:
		return b.table(*v)
	case Rule:
		return b.rule(v)
	case *Rule:
		return b.rule(*v)
	case PageBreak, *PageBreak:
		return b.pageBreak()
	default:
		return nil, &ShapeError{
			Code:    CodeUnknownBlock,
			Message: fmt.Sprintf("unknown block type %T", block),
			Block:   noBlock,
		}
	}
}

// isNilBlock reports a nil interface or a typed nil pointer.
func isNilBlock(block Block) bool {
	if block == nil {
		return true
	}
	v := reflect.ValueOf(block)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (b *builder) heading(h Heading) ([]xml.BodyElement, error) {
	if h.Level < 1 || h.Level > MaxHeadingLevel {
		return nil, &ShapeError{
			Code:    CodeInvalidHeadingLevel,
			Message: fmt.Sprintf("heading level %d outside 1..%d", h.Level, MaxHeadingLevel),
			Block:   noBlock,
		}
	}
	styleID := h.Style
	if styleID == "" {
		styleID = HeadingStyleID(h.Level)
	}
	elements, err := b.paragraph(Paragraph{
		Runs:  []RunSpec{Text(h.Text)},
		Style: styleID,
		Align: h.Align,
	})
	if err != nil {
		return nil, err
	}
	// A style without the matching outline level still reads as a heading.
	if spec, _ := b.styles.Resolve(styleID); spec.OutlineLevel != h.Level {
		level := h.Level - 1
		elements[0].(*xml.Paragraph).Properties.OutlineLevel = &level
	}
	return elements, nil
}

func (b *builder) paragraph(p Paragraph) ([]xml.BodyElement, error) {
	para, err := b.newParagraph(p.Style, p.Runs)
	if err != nil {
		return nil, err
	}

	props := para.Properties
	if p.Align != AlignDefault {
		jc, err := alignment(p.Align)
		if err != nil {
			return nil, err
		}
		props.Alignment = jc
	}
	if p.Indent > 0 {
		props.Indentation = &xml.Indentation{Left: p.Indent.Twips()}
	}
	if p.SpaceBefore != nil || p.SpaceAfter != nil {
		props.Spacing = &xml.Spacing{
			Before: twipsOf(p.SpaceBefore),
			After:  twipsOf(p.SpaceAfter),
		}
	}
	props.KeepNext = p.KeepWithNext

	return []xml.BodyElement{para}, nil
}

func (b *builder) numberedList(l NumberedList) ([]xml.BodyElement, error) {
	if err := checkListLevels(l.Items); err != nil {
		return nil, err
	}
	return b.list(l.Items, b.nums.nextDecimal(l.Start))
}

func checkListLevels(items []ListItem) error {
	for i, item := range items {
		if item.Level < 0 || item.Level > MaxListLevel {
			return &ShapeError{
				Code:    CodeInvalidListLevel,
				Message: fmt.Sprintf("item %d has level %d outside 0..%d", i, item.Level, MaxListLevel),
				Block:   noBlock,
			}
		}
	}
	return nil
}

func (b *builder) list(items []ListItem, numID int) ([]xml.BodyElement, error) {
	if err := checkListLevels(items); err != nil {
		return nil, err
	}

	elements := make([]xml.BodyElement, 0, len(items))
	for _, item := range items {
		para, err := b.newParagraph(StyleListParagraph, item.Runs)
		if err != nil {
			return nil, err
		}
		para.Properties.Numbering = &xml.NumberingProperties{Level: item.Level, NumID: numID}
		elements = append(elements, para)
	}
	return elements, nil
}

func (b *builder) rule(r Rule) ([]xml.BodyElement, error) {
	color, err := b.color(r.ColorRGB, b.styles.Palette().Rule)
	if err != nil {
		return nil, err
	}

	para, err := b.newParagraph(StyleNormal, nil)
	if err != nil {
		return nil, err
	}
	space := render.Pt(12).Twips()
	para.Properties.Spacing = &xml.Spacing{Before: &space, After: &space}
	if err := b.doc.setProperty(para, BottomBorderElement(color, ruleBorderSize)); err != nil {
		return nil, err
	}
	return []xml.BodyElement{para}, nil
}

func (b *builder) pageBreak() ([]xml.BodyElement, error) {
	run := xml.Run{}
	run.AppendBreak("page")
	return []xml.BodyElement{&xml.Paragraph{Runs: []xml.Run{run}}}, nil
}

// newParagraph creates a paragraph with a resolved paragraph style and one
// run per spec, merging neighbours that format identically.
func (b *builder) newParagraph(styleID string, runs []RunSpec) (*xml.Paragraph, error) {
	if styleID == "" {
		styleID = StyleNormal
	}
	if _, err := b.styles.resolveKind(styleID, ParagraphStyle); err != nil {
		return nil, err
	}

	para := &xml.Paragraph{Properties: &xml.ParagraphProperties{Style: &xml.Style{Val: styleID}}}
	for _, spec := range runs {
		props, err := b.runProperties(spec)
		if err != nil {
			return nil, err
		}
		para.AddText(spec.Text, props)
	}
	render.MergeConsecutiveRuns(para)
	return para, nil
}

// runProperties converts the overrides of a RunSpec, nil when there are none.
func (b *builder) runProperties(spec RunSpec) (*xml.RunProperties, error) {
	props := &xml.RunProperties{
		Bold:   xml.Toggle(spec.Bold),
		Italic: xml.Toggle(spec.Italic),
	}
	if spec.Style != "" {
		if _, err := b.styles.resolveKind(spec.Style, CharacterStyle); err != nil {
			return nil, err
		}
		props.Style = &xml.RunStyle{Val: spec.Style}
	}
	if spec.ColorRGB != "" {
		color, err := b.color(spec.ColorRGB, "")
		if err != nil {
			return nil, err
		}
		props.Color = &xml.Color{Val: color}
	}
	if spec.SizePt < 0 {
		return nil, &ConfigurationError{
			Code:    CodeInvalidStyle,
			Message: fmt.Sprintf("run size %gpt is negative", spec.SizePt),
			Block:   noBlock,
		}
	}
	if spec.SizePt > 0 {
		size := render.HalfPoints(spec.SizePt)
		props.Size = &xml.Size{Val: size}
		props.SizeCs = &xml.Size{Val: size}
	}
	if spec.Underline {
		props.Underline = &xml.UnderlineStyle{Val: "single"}
	}
	if props.IsEmpty() {
		return nil, nil
	}
	return props, nil
}

// color normalizes and validates a colour, falling back to def when empty.
func (b *builder) color(value, def string) (string, error) {
	if value == "" {
		return def, nil
	}
	c := NormalizeColor(value)
	if !isRGB(c) {
		return "", &ConfigurationError{
			Code:    CodeInvalidColor,
			Message: fmt.Sprintf("invalid colour %q", value),
			Block:   noBlock,
		}
	}
	return c, nil
}

func alignment(a Alignment) (*xml.Alignment, error) {
	switch a {
	case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return &xml.Alignment{Val: string(a)}, nil
	case "justify":
		return &xml.Alignment{Val: string(AlignJustify)}, nil
	}
	return nil, &ConfigurationError{
		Code:    CodeInvalidStyle,
		Message: fmt.Sprintf("unknown alignment %q", a),
		Block:   noBlock,
	}
}

func twipsOf(pt *float64) *int {
	if pt == nil {
		return nil
	}
	v := render.Pt(*pt).Twips()
	return &v
}
