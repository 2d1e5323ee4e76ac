package compose

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberingTransaction(t *testing.T) {
	n := newNumbering()
	require.Len(t, n.instances, 1)
	assert.Equal(t, bulletNumID, n.instances[0].id)

	tx := n.begin()
	assert.Equal(t, 2, tx.nextDecimal(0))
	assert.Equal(t, 3, tx.nextDecimal(5))
	assert.Len(t, n.instances, 1, "allocations are invisible until commit")

	tx.commit()
	require.Len(t, n.instances, 3)
	assert.Equal(t, numInstance{id: 2, abstract: decimalAbstractID, start: 1}, n.instances[1])
	assert.Equal(t, numInstance{id: 3, abstract: decimalAbstractID, start: 5}, n.instances[2])
}

func TestNumberingDiscardedTransaction(t *testing.T) {
	n := newNumbering()

	discarded := n.begin()
	discarded.nextDecimal(1)

	tx := n.begin()
	assert.Equal(t, 2, tx.nextDecimal(1), "ids of a discarded batch are reused")
	tx.commit()
	assert.Len(t, n.instances, 2)
}

func TestNumberingXML(t *testing.T) {
	n := newNumbering()
	tx := n.begin()
	tx.nextDecimal(1)
	tx.nextDecimal(4)
	tx.commit()

	data, err := n.NumberingXML()
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "numbering", root.Tag)

	abstracts := root.SelectElements("abstractNum")
	require.Len(t, abstracts, 2)
	for _, abs := range abstracts {
		assert.Len(t, abs.SelectElements("lvl"), MaxListLevel+1)
	}

	bullet := abstracts[0]
	assert.Equal(t, "bullet", bullet.FindElement("./lvl[@ilvl='0']/numFmt").SelectAttrValue("val", ""))
	assert.Equal(t, "•", bullet.FindElement("./lvl[@ilvl='0']/lvlText").SelectAttrValue("val", ""))
	assert.Equal(t, "o", bullet.FindElement("./lvl[@ilvl='1']/lvlText").SelectAttrValue("val", ""))
	assert.Equal(t, "720", bullet.FindElement("./lvl[@ilvl='0']/pPr/ind").SelectAttrValue("left", ""))
	assert.Equal(t, "1440", bullet.FindElement("./lvl[@ilvl='1']/pPr/ind").SelectAttrValue("left", ""))
	assert.Equal(t, "360", bullet.FindElement("./lvl[@ilvl='1']/pPr/ind").SelectAttrValue("hanging", ""))

	decimal := abstracts[1]
	assert.Equal(t, "decimal", decimal.FindElement("./lvl[@ilvl='0']/numFmt").SelectAttrValue("val", ""))
	assert.Equal(t, "lowerLetter", decimal.FindElement("./lvl[@ilvl='1']/numFmt").SelectAttrValue("val", ""))
	assert.Equal(t, "%2.", decimal.FindElement("./lvl[@ilvl='1']/lvlText").SelectAttrValue("val", ""))

	nums := root.SelectElements("num")
	require.Len(t, nums, 3)
	assert.Equal(t, "1", nums[0].SelectAttrValue("numId", ""))
	assert.Nil(t, nums[0].FindElement("./lvlOverride"))
	assert.Equal(t, "1", nums[1].FindElement("./lvlOverride/startOverride").SelectAttrValue("val", ""))
	assert.Equal(t, "3", nums[2].SelectAttrValue("numId", ""))
	assert.Equal(t, "4", nums[2].FindElement("./lvlOverride/startOverride").SelectAttrValue("val", ""))
	assert.Equal(t, "1", nums[2].FindElement("./abstractNumId").SelectAttrValue("val", ""))
}
