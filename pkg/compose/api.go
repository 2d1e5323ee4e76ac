package compose

import (
	"io"
	"sort"
)

// Version is the library version
const Version = "0.1.0"

// Plan is an ordered content plan for one document
type Plan struct {
	Meta Meta
	// Styles override or add styles before any block is composed.
	// Unknown IDs start from a paragraph style based on Normal.
	Styles map[string]StyleOverride
	Blocks []Block
}

// Build runs a whole composition session for a plan and returns the
// finalized document
func Build(plan Plan, opts ...Option) (*Document, error) {
	opts = append([]Option{WithMeta(plan.Meta)}, opts...)
	doc, err := New(opts...)
	if err != nil {
		return nil, err
	}

	if err := applyStyles(doc, plan.Styles); err != nil {
		return nil, err
	}
	if err := doc.Compose(plan.Blocks...); err != nil {
		return nil, err
	}
	if err := doc.Finalize(); err != nil {
		return nil, err
	}
	return doc, nil
}

// applyStyles applies overrides so that every BasedOn target is defined
// before the styles built on it. Independent styles go in ID order. A Next
// pointing at a style of the same batch that is not yet defined is set in a
// second pass.
func applyStyles(doc *Document, overrides map[string]StyleOverride) error {
	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	specs := make(map[string]StyleSpec, len(ids))
	for _, id := range ids {
		base, err := doc.Styles().Resolve(id)
		if err != nil {
			base = StyleSpec{Name: id, BasedOn: StyleNormal}
		}
		specs[id] = overrides[id].Apply(base)
	}

	const (
		visiting = 1
		defined  = 2
	)
	marks := make(map[string]int, len(ids))
	var deferred []string

	var visit func(id string) error
	visit = func(id string) error {
		switch marks[id] {
		case defined:
			return nil
		case visiting:
			return &ConfigurationError{Code: CodeInvalidStyle, Style: id, Message: "style inheritance forms a cycle", Block: noBlock}
		}
		marks[id] = visiting
		spec := specs[id]
		if _, ok := specs[spec.BasedOn]; ok && spec.BasedOn != id {
			if err := visit(spec.BasedOn); err != nil {
				return err
			}
		}
		if _, ok := specs[spec.Next]; ok && spec.Next != id && marks[spec.Next] != defined {
			deferred = append(deferred, id)
			spec.Next = ""
		}
		if err := doc.DefineStyle(id, spec); err != nil {
			return err
		}
		marks[id] = defined
		return nil
	}

	for _, id := range ids {
		if err := visit(id); err != nil {
			return err
		}
	}
	for _, id := range deferred {
		if err := doc.DefineStyle(id, specs[id]); err != nil {
			return err
		}
	}
	return nil
}

// Render composes the plan and writes the .docx bytes to w
func Render(plan Plan, w io.Writer, opts ...Option) error {
	doc, err := Build(plan, opts...)
	if err != nil {
		return err
	}
	_, err = doc.WriteTo(w)
	return err
}

// RenderFile composes the plan and writes the .docx atomically to path.
// Nothing is written if any block fails.
func RenderFile(plan Plan, path string, opts ...Option) error {
	doc, err := Build(plan, opts...)
	if err != nil {
		return err
	}
	return doc.WriteFile(path)
}
