package compose

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/benjaminschreck/go-compose/pkg/compose/render"
)

// MaxListLevel is the deepest list level (w:ilvl) a list item may use
const MaxListLevel = 8

const (
	bulletAbstractID  = 0
	decimalAbstractID = 1
	// bulletNumID is shared by every bulleted list; bullets carry no count.
	bulletNumID = 1
)

var (
	bulletGlyphs   = []string{"•", "o", "▪"}
	decimalFormats = []string{"decimal", "lowerLetter", "lowerRoman"}
)

// numInstance is one w:num: a numbering sequence bound to an abstract
// definition, restarting at start.
type numInstance struct {
	id       int
	abstract int
	start    int
}

// numbering holds the numbering instances of one document
type numbering struct {
	instances []numInstance
}

func newNumbering() *numbering {
	return &numbering{instances: []numInstance{{id: bulletNumID, abstract: bulletAbstractID, start: 1}}}
}

// numberingTx allocates numbering instances for a batch of blocks. Nothing
// is visible to the document until commit.
type numberingTx struct {
	base    *numbering
	pending []numInstance
}

func (n *numbering) begin() *numberingTx {
	return &numberingTx{base: n}
}

// nextDecimal allocates a decimal instance restarting at start.
func (tx *numberingTx) nextDecimal(start int) int {
	if start <= 0 {
		start = 1
	}
	id := len(tx.base.instances) + len(tx.pending) + 1
	tx.pending = append(tx.pending, numInstance{id: id, abstract: decimalAbstractID, start: start})
	return id
}

func (tx *numberingTx) commit() {
	tx.base.instances = append(tx.base.instances, tx.pending...)
	tx.pending = nil
}

// NumberingXML serializes word/numbering.xml
func (n *numbering) NumberingXML() ([]byte, error) {
	doc, root := newPart("w:numbering")

	writeAbstractNum(root, bulletAbstractID, func(lvl int) (string, string) {
		return "bullet", bulletGlyphs[lvl%len(bulletGlyphs)]
	})
	writeAbstractNum(root, decimalAbstractID, func(lvl int) (string, string) {
		return decimalFormats[lvl%len(decimalFormats)], fmt.Sprintf("%%%d.", lvl+1)
	})

	for _, inst := range n.instances {
		num := root.CreateElement("w:num")
		num.CreateAttr("w:numId", itoa(inst.id))
		wVal(num, "abstractNumId", itoa(inst.abstract))
		if inst.abstract == decimalAbstractID {
			override := num.CreateElement("w:lvlOverride")
			override.CreateAttr("w:ilvl", "0")
			wVal(override, "startOverride", itoa(inst.start))
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func writeAbstractNum(root *etree.Element, id int, level func(int) (format, text string)) {
	abs := root.CreateElement("w:abstractNum")
	abs.CreateAttr("w:abstractNumId", itoa(id))
	wVal(abs, "multiLevelType", "hybridMultilevel")

	for lvl := 0; lvl <= MaxListLevel; lvl++ {
		format, text := level(lvl)
		l := abs.CreateElement("w:lvl")
		l.CreateAttr("w:ilvl", itoa(lvl))
		wVal(l, "start", "1")
		wVal(l, "numFmt", format)
		wVal(l, "lvlText", text)
		wVal(l, "lvlJc", "left")

		pPr := l.CreateElement("w:pPr")
		ind := pPr.CreateElement("w:ind")
		ind.CreateAttr("w:left", itoa(render.Inches(0.5*float64(lvl+1)).Twips()))
		ind.CreateAttr("w:hanging", itoa(render.Inches(0.25).Twips()))
	}
}
