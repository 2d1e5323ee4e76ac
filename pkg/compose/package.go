package compose

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beevik/etree"

	wxml "github.com/benjaminschreck/go-compose/pkg/compose/xml"
)

// Part names of the package
const (
	PartContentTypes = "[Content_Types].xml"
	PartRootRels     = "_rels/.rels"
	PartDocument     = "word/document.xml"
	PartDocumentRels = "word/_rels/document.xml.rels"
	PartStyles       = "word/styles.xml"
	PartNumbering    = "word/numbering.xml"
	PartSettings     = "word/settings.xml"
	PartCoreProps    = "docProps/core.xml"
	PartAppProps     = "docProps/app.xml"
)

const (
	relationshipsNS   = "http://schemas.openxmlformats.org/package/2006/relationships"
	contentTypesNS    = "http://schemas.openxmlformats.org/package/2006/content-types"
	officeRelsBase    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	wordprocessingCT  = "application/vnd.openxmlformats-officedocument.wordprocessingml."
	appName           = "go-compose"
	coreNS            = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	extendedPropsNS   = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	docPropsVTypesNS  = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
	dublinCoreNS      = "http://purl.org/dc/elements/1.1/"
	dublinCoreTermsNS = "http://purl.org/dc/terms/"
	dcmiTypeNS        = "http://purl.org/dc/dcmitype/"
	xsiNS             = "http://www.w3.org/2001/XMLSchema-instance"
)

// Relationship represents a relationship in the package
type Relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// Relationships represents the collection of relationships of one part
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

// ContentTypes represents [Content_Types].xml
type ContentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []ContentTypeDefault  `xml:"Default"`
	Overrides []ContentTypeOverride `xml:"Override"`
}

// ContentTypeDefault maps a file extension to a content type
type ContentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypeOverride maps a part name to a content type
type ContentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// packagePart is one zip entry
type packagePart struct {
	name string
	data []byte
}

func marshalPart(v interface{}) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(wxml.Header), out...), nil
}

func contentTypes() ContentTypes {
	return ContentTypes{
		Namespace: contentTypesNS,
		Defaults: []ContentTypeDefault{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []ContentTypeOverride{
			{PartName: "/" + PartDocument, ContentType: wordprocessingCT + "document.main+xml"},
			{PartName: "/" + PartStyles, ContentType: wordprocessingCT + "styles+xml"},
			{PartName: "/" + PartNumbering, ContentType: wordprocessingCT + "numbering+xml"},
			{PartName: "/" + PartSettings, ContentType: wordprocessingCT + "settings+xml"},
			{PartName: "/" + PartCoreProps, ContentType: "application/vnd.openxmlformats-package.core-properties+xml"},
			{PartName: "/" + PartAppProps, ContentType: "application/vnd.openxmlformats-officedocument.extended-properties+xml"},
		},
	}
}

func rootRelationships() Relationships {
	return Relationships{
		Namespace: relationshipsNS,
		Relationship: []Relationship{
			{ID: "rId1", Type: officeRelsBase + "officeDocument", Target: PartDocument},
			{ID: "rId2", Type: "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties", Target: PartCoreProps},
			{ID: "rId3", Type: officeRelsBase + "extended-properties", Target: PartAppProps},
		},
	}
}

func documentRelationships() Relationships {
	return Relationships{
		Namespace: relationshipsNS,
		Relationship: []Relationship{
			{ID: "rId1", Type: officeRelsBase + "styles", Target: "styles.xml"},
			{ID: "rId2", Type: officeRelsBase + "numbering", Target: "numbering.xml"},
			{ID: "rId3", Type: officeRelsBase + "settings", Target: "settings.xml"},
		},
	}
}

// parts serializes every package part in zip order
func (d *Document) parts() ([]packagePart, error) {
	var parts []packagePart
	add := func(name string, build func() ([]byte, error)) error {
		data, err := build()
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", name, err)
		}
		parts = append(parts, packagePart{name: name, data: data})
		return nil
	}

	steps := []struct {
		name  string
		build func() ([]byte, error)
	}{
		{PartContentTypes, func() ([]byte, error) { return marshalPart(contentTypes()) }},
		{PartRootRels, func() ([]byte, error) { return marshalPart(rootRelationships()) }},
		{PartDocument, d.tree.Marshal},
		{PartDocumentRels, func() ([]byte, error) { return marshalPart(documentRelationships()) }},
		{PartStyles, d.styles.StylesXML},
		{PartNumbering, d.numbering.NumberingXML},
		{PartSettings, settingsXML},
		{PartCoreProps, d.coreXML},
		{PartAppProps, appXML},
	}
	for _, s := range steps {
		if err := add(s.name, s.build); err != nil {
			return nil, err
		}
	}
	return parts, nil
}

// Render serializes the finalized document into .docx bytes
func (d *Document) Render() ([]byte, error) {
	if d.state != StateFinalized {
		return nil, &StateError{Code: CodeNotFinalized, Operation: "render", State: d.state}
	}

	parts, err := d.parts()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     part.name,
			Method:   zip.Deflate,
			Modified: d.meta.Created,
		})
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", part.name, err)
		}
		if _, err := w.Write(part.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTo renders the document and writes it to w
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := d.Render()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), NewIOError("write", "", err)
	}
	return int64(n), nil
}

// WriteFile renders the document and writes it to path atomically: the
// package is written to a temp file in the same directory, then renamed.
// On failure nothing is left at path or in the directory.
func (d *Document) WriteFile(path string) error {
	data, err := d.Render()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	logger := GetLogger("writer")
	logger.Info().Str("path", path).Int("bytes", len(data)).Msg("Document written")
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".compose-*.tmp")
	if err != nil {
		return NewIOError("create temp file", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return NewIOError("write", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return NewIOError("sync", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return NewIOError("close temp file", path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return NewIOError("chmod", path, err)
	}

	// Atomic rename.
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return NewIOError("rename", path, err)
	}
	return nil
}

func settingsXML() ([]byte, error) {
	doc, root := newPart("w:settings")
	zoom := root.CreateElement("w:zoom")
	zoom.CreateAttr("w:percent", "100")
	wVal(root, "defaultTabStop", "720")
	wVal(root, "characterSpacingControl", "doNotCompress")
	compat := root.CreateElement("w:compat")
	setting := compat.CreateElement("w:compatSetting")
	setting.CreateAttr("w:name", "compatibilityMode")
	setting.CreateAttr("w:uri", "http://schemas.microsoft.com/office/word")
	setting.CreateAttr("w:val", "15")
	doc.Indent(2)
	return doc.WriteToBytes()
}

func (d *Document) coreXML() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement("cp:coreProperties")
	root.CreateAttr("xmlns:cp", coreNS)
	root.CreateAttr("xmlns:dc", dublinCoreNS)
	root.CreateAttr("xmlns:dcterms", dublinCoreTermsNS)
	root.CreateAttr("xmlns:dcmitype", dcmiTypeNS)
	root.CreateAttr("xmlns:xsi", xsiNS)

	text := func(tag, value string) {
		if value != "" {
			root.CreateElement(tag).SetText(value)
		}
	}
	text("dc:title", d.meta.Title)
	text("dc:subject", d.meta.Subject)
	text("dc:creator", d.meta.Author)
	text("cp:keywords", strings.Join(d.meta.Keywords, ", "))
	text("dc:description", d.meta.Description)
	text("cp:lastModifiedBy", d.meta.Author)

	stamp := d.meta.Created.UTC().Format(time.RFC3339)
	for _, tag := range []string{"dcterms:created", "dcterms:modified"} {
		el := root.CreateElement(tag)
		el.CreateAttr("xsi:type", "dcterms:W3CDTF")
		el.SetText(stamp)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func appXML() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement("Properties")
	root.CreateAttr("xmlns", extendedPropsNS)
	root.CreateAttr("xmlns:vt", docPropsVTypesNS)
	root.CreateElement("Application").SetText(appName)
	doc.Indent(2)
	return doc.WriteToBytes()
}
