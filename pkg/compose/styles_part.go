package compose

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/benjaminschreck/go-compose/pkg/compose/render"
	"github.com/benjaminschreck/go-compose/pkg/compose/xml"
)

const (
	tableNormalStyle          = "TableNormal"
	defaultParagraphFontStyle = "DefaultParagraphFont"
)

// reservedStyles are written by StylesXML and cannot be defined.
var reservedStyles = map[string]bool{
	tableNormalStyle:          true,
	defaultParagraphFontStyle: true,
}

// newPart starts an etree document with the standard XML declaration and a
// root element declaring the w namespace.
func newPart(root string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	el := doc.CreateElement(root)
	el.CreateAttr("xmlns:w", xml.NamespaceW)
	return doc, el
}

// wVal appends <w:name w:val="val"/> to parent.
func wVal(parent *etree.Element, name, val string) *etree.Element {
	el := parent.CreateElement("w:" + name)
	el.CreateAttr("w:val", val)
	return el
}

func itoa(i int) string { return strconv.Itoa(i) }

// StylesXML serializes the registry into word/styles.xml
func (r *StyleRegistry) StylesXML() ([]byte, error) {
	doc, root := newPart("w:styles")
	r.writeDocDefaults(root)
	writeBuiltinStyles(root)

	for _, id := range r.order {
		spec := r.styles[id]
		if spec.kind() == TableStyle {
			writeTableStyle(root, id, spec)
			continue
		}
		r.writeStyle(root, id, spec)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (r *StyleRegistry) writeDocDefaults(root *etree.Element) {
	defaults := root.CreateElement("w:docDefaults")
	rPr := defaults.CreateElement("w:rPrDefault").CreateElement("w:rPr")
	writeFonts(rPr, r.config.FontFamily)
	size := itoa(render.HalfPoints(r.config.BaseSizePt))
	wVal(rPr, "sz", size)
	wVal(rPr, "szCs", size)
	if r.config.Language != "" {
		wVal(rPr, "lang", r.config.Language)
	}

	pPr := defaults.CreateElement("w:pPrDefault").CreateElement("w:pPr")
	spacing := pPr.CreateElement("w:spacing")
	spacing.CreateAttr("w:after", "0")
	spacing.CreateAttr("w:line", "259")
	spacing.CreateAttr("w:lineRule", "auto")
}

func writeFonts(parent *etree.Element, family string) {
	fonts := parent.CreateElement("w:rFonts")
	for _, slot := range []string{"ascii", "hAnsi", "eastAsia", "cs"} {
		fonts.CreateAttr("w:"+slot, family)
	}
}

// writeBuiltinStyles emits the defaults Word expects every package to carry.
func writeBuiltinStyles(root *etree.Element) {
	dpf := root.CreateElement("w:style")
	dpf.CreateAttr("w:type", string(CharacterStyle))
	dpf.CreateAttr("w:default", "1")
	dpf.CreateAttr("w:styleId", defaultParagraphFontStyle)
	wVal(dpf, "name", "Default Paragraph Font")
	wVal(dpf, "uiPriority", "1")
	dpf.CreateElement("w:semiHidden")
	dpf.CreateElement("w:unhideWhenUsed")

	tn := root.CreateElement("w:style")
	tn.CreateAttr("w:type", string(TableStyle))
	tn.CreateAttr("w:default", "1")
	tn.CreateAttr("w:styleId", tableNormalStyle)
	wVal(tn, "name", "Normal Table")
	wVal(tn, "uiPriority", "99")
	tn.CreateElement("w:semiHidden")
	tn.CreateElement("w:unhideWhenUsed")
	tblPr := tn.CreateElement("w:tblPr")
	ind := tblPr.CreateElement("w:tblInd")
	ind.CreateAttr("w:w", "0")
	ind.CreateAttr("w:type", "dxa")
	mar := tblPr.CreateElement("w:tblCellMar")
	for _, side := range []struct{ name, w string }{{"top", "0"}, {"left", "108"}, {"bottom", "0"}, {"right", "108"}} {
		m := mar.CreateElement("w:" + side.name)
		m.CreateAttr("w:w", side.w)
		m.CreateAttr("w:type", "dxa")
	}
}

func (r *StyleRegistry) writeStyle(root *etree.Element, id string, spec StyleSpec) {
	style := root.CreateElement("w:style")
	style.CreateAttr("w:type", string(spec.kind()))
	if id == StyleNormal {
		style.CreateAttr("w:default", "1")
	}
	style.CreateAttr("w:styleId", id)

	wVal(style, "name", spec.Name)
	switch {
	case spec.BasedOn != "":
		wVal(style, "basedOn", spec.BasedOn)
	case spec.kind() == CharacterStyle:
		wVal(style, "basedOn", defaultParagraphFontStyle)
	}
	if spec.Next != "" {
		wVal(style, "next", spec.Next)
	}
	style.CreateElement("w:qFormat")

	if spec.kind() == ParagraphStyle {
		pPr := style.CreateElement("w:pPr")
		if spec.KeepNext {
			pPr.CreateElement("w:keepNext")
		}
		spacing := pPr.CreateElement("w:spacing")
		spacing.CreateAttr("w:before", itoa(render.Pt(spec.SpaceBeforePt).Twips()))
		spacing.CreateAttr("w:after", itoa(render.Pt(spec.SpaceAfterPt).Twips()))
		if spec.OutlineLevel > 0 {
			wVal(pPr, "outlineLvl", itoa(spec.OutlineLevel-1))
		}
	}

	rPr := style.CreateElement("w:rPr")
	if spec.FontFamily != "" {
		writeFonts(rPr, spec.FontFamily)
	}
	if spec.Bold {
		rPr.CreateElement("w:b")
		rPr.CreateElement("w:bCs")
	}
	if spec.Italic {
		rPr.CreateElement("w:i")
		rPr.CreateElement("w:iCs")
	}
	if spec.ColorRGB != "" {
		wVal(rPr, "color", spec.ColorRGB)
	}
	if spec.PointSize > 0 {
		size := itoa(render.HalfPoints(spec.PointSize))
		wVal(rPr, "sz", size)
		wVal(rPr, "szCs", size)
	}
	if len(rPr.ChildElements()) == 0 {
		style.RemoveChild(rPr)
	}
}

// writeTableStyle emits a bordered grid table style.
func writeTableStyle(root *etree.Element, id string, spec StyleSpec) {
	style := root.CreateElement("w:style")
	style.CreateAttr("w:type", string(TableStyle))
	style.CreateAttr("w:styleId", id)
	wVal(style, "name", spec.Name)
	basedOn := spec.BasedOn
	if basedOn == "" {
		basedOn = tableNormalStyle
	}
	wVal(style, "basedOn", basedOn)
	wVal(style, "uiPriority", "39")

	pPr := style.CreateElement("w:pPr")
	spacing := pPr.CreateElement("w:spacing")
	spacing.CreateAttr("w:after", "0")
	spacing.CreateAttr("w:line", "240")
	spacing.CreateAttr("w:lineRule", "auto")

	tblPr := style.CreateElement("w:tblPr")
	borders := tblPr.CreateElement("w:tblBorders")
	color := "auto"
	if spec.ColorRGB != "" {
		color = spec.ColorRGB
	}
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		b := borders.CreateElement("w:" + side)
		b.CreateAttr("w:val", "single")
		b.CreateAttr("w:sz", "4")
		b.CreateAttr("w:space", "0")
		b.CreateAttr("w:color", color)
	}
}
