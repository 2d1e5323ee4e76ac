// Package xml provides the typed WordprocessingML node model that go-compose
// serializes into word/document.xml.
//
// Every node marshals itself with explicit `w:`-prefixed element and attribute
// names, so the output can be embedded in a document root that declares the
// `w` namespace once.
//
// # Structure Organization
//
//   - types.go: BodyElement, Style, OnOff and small value types
//   - element.go: Element and ElementList, the structured raw elements used to
//     patch properties the typed model does not expose
//   - document.go: Document, Body and SectionProperties
//   - paragraph.go: Paragraph and ParagraphProperties
//   - run.go: Run, RunProperties, Text and Break
//   - table.go: Table, TableRow, TableCell and their properties
//
// # Property Ordering
//
// OOXML consumers validate the order of children inside pPr and tcPr. Typed
// properties and patched elements are merged and emitted by schema rank (see
// paragraphPropertyRank and cellPropertyRank), so a patched w:pBdr lands
// between w:numPr and w:spacing no matter when it was attached.
//
// Example:
//
//	p := &xml.Paragraph{}
//	p.AddText("Hello, world!", nil)
//	p.ExtraProperties().Set(xml.NewElement("pBdr", nil,
//	    xml.NewElement("bottom", map[string]string{"val": "single", "sz": "12"})))
package xml
