// Package pptx implements a pure-Go slide extractor for OOXML presentation
// files (.pptx). It reads slide text and shape structure straight from the
// package XML, with no dependency on an installed presentation application.
package pptx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/deckhound/deckhound/internal/extract"
)

// Ensure Extractor implements the interface.
var _ extract.Extractor = (*Extractor)(nil)

// OOXML namespaces used when walking slide XML.
const (
	nsPresentation  = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawing       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Config controls rendering sizes and the text-only classification policy.
type Config struct {
	// ThumbHeight is the pixel height of the low-resolution render
	// (default 240; width follows a 16:9 ratio).
	ThumbHeight int

	// HiresHeight is the pixel height of the high-resolution render
	// (default 1080).
	HiresHeight int

	// NonTextShapes overrides the shape kinds classified as non-text
	// content. Nil selects extract.DefaultNonTextShapes.
	NonTextShapes []string
}

// Extractor reads .pptx files. An Extractor processes one document at a
// time; use one instance per worker when parallelising.
type Extractor struct {
	thumbHeight int
	hiresHeight int
	policy      extract.Policy
}

// New creates an extractor with default configuration.
func New() *Extractor {
	return NewWithConfig(Config{})
}

// NewWithConfig creates an extractor with the given configuration.
func NewWithConfig(cfg Config) *Extractor {
	if cfg.ThumbHeight <= 0 {
		cfg.ThumbHeight = 240
	}
	if cfg.HiresHeight <= 0 {
		cfg.HiresHeight = 1080
	}
	shapes := cfg.NonTextShapes
	if shapes == nil {
		shapes = extract.DefaultNonTextShapes
	}
	return &Extractor{
		thumbHeight: cfg.ThumbHeight,
		hiresHeight: cfg.HiresHeight,
		policy:      extract.NewPolicy(shapes),
	}
}

// ExtractSlides returns one record per slide, in the deck's native order.
func (e *Extractor) ExtractSlides(ctx context.Context, docPath string) ([]extract.SlideRecord, error) {
	reader, err := zip.OpenReader(docPath)
	if err != nil {
		return nil, &extract.ExtractionError{Path: docPath, Err: err}
	}
	defer func() { _ = reader.Close() }()

	entries := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		entries[f.Name] = f
	}

	slidePaths, err := slideOrder(entries)
	if err != nil {
		return nil, &extract.ExtractionError{Path: docPath, Err: err}
	}
	if len(slidePaths) == 0 {
		return nil, &extract.ExtractionError{Path: docPath, Err: errors.New("no slides found")}
	}

	records := make([]extract.SlideRecord, 0, len(slidePaths))
	for i, slidePath := range slidePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		root, err := parseEntry(entries, slidePath)
		if err != nil {
			return nil, &extract.ExtractionError{Path: docPath, Err: fmt.Errorf("slide %d: %w", i+1, err)}
		}

		shapes := shapeTree(root)
		texts := collectTexts(shapes)
		rec := extract.SlideRecord{
			Ordinal:  i + 1, // match the deck's own slide numbering
			Texts:    texts,
			TextOnly: !containsNonText(shapes, e.policy),
		}
		rec.Thumbnail = renderSlide(texts, e.thumbHeight)
		rec.Hires = renderSlide(texts, e.hiresHeight)
		records = append(records, rec)
	}
	return records, nil
}

var slideEntryPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// slideOrder resolves the deck's slide order from the presentation part and
// its relationships. Decks without a usable sldIdLst fall back to the
// numeric order of the slide entries themselves.
func slideOrder(entries map[string]*zip.File) ([]string, error) {
	ids, err := slideIDList(entries)
	if err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		targets, err := slideRelTargets(entries)
		if err != nil {
			return nil, err
		}
		paths := make([]string, 0, len(ids))
		for _, rid := range ids {
			target, ok := targets[rid]
			if !ok {
				return nil, fmt.Errorf("slide relationship %s not found", rid)
			}
			paths = append(paths, target)
		}
		return paths, nil
	}

	// Fallback: slideN.xml entries in numeric order.
	type numbered struct {
		n    int
		path string
	}
	var found []numbered
	for name := range entries {
		m := slideEntryPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, numbered{n: n, path: name})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	paths := make([]string, 0, len(found))
	for _, f := range found {
		paths = append(paths, f.path)
	}
	return paths, nil
}

// presentationXML captures the slide id list of ppt/presentation.xml.
type presentationXML struct {
	SlideIDList struct {
		IDs []struct {
			RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sldId"`
	} `xml:"sldIdLst"`
}

func slideIDList(entries map[string]*zip.File) ([]string, error) {
	raw, err := readEntry(entries, "ppt/presentation.xml")
	if err != nil || raw == nil {
		return nil, err
	}

	var pres presentationXML
	if err := xml.Unmarshal(raw, &pres); err != nil {
		return nil, fmt.Errorf("presentation.xml: %w", err)
	}

	ids := make([]string, 0, len(pres.SlideIDList.IDs))
	for _, id := range pres.SlideIDList.IDs {
		if id.RID != "" {
			ids = append(ids, id.RID)
		}
	}
	return ids, nil
}

// relationshipsXML captures ppt/_rels/presentation.xml.rels.
type relationshipsXML struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

func slideRelTargets(entries map[string]*zip.File) (map[string]string, error) {
	raw, err := readEntry(entries, "ppt/_rels/presentation.xml.rels")
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("presentation relationships not found")
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(raw, &rels); err != nil {
		return nil, fmt.Errorf("presentation.xml.rels: %w", err)
	}

	targets := make(map[string]string, len(rels.Rels))
	for _, rel := range rels.Rels {
		target := rel.Target
		if strings.HasPrefix(target, "/") {
			target = strings.TrimPrefix(target, "/")
		} else {
			target = path.Join("ppt", target)
		}
		targets[rel.ID] = path.Clean(target)
	}
	return targets, nil
}

// readEntry reads a zip entry, returning nil bytes if it does not exist.
func readEntry(entries map[string]*zip.File, name string) ([]byte, error) {
	f, ok := entries[name]
	if !ok {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return raw, nil
}

// xmlNode is a generic element tree, used to walk slide XML whose shape
// nesting (group shapes in particular) is recursive.
type xmlNode struct {
	XMLName xml.Name
	Nodes   []xmlNode `xml:",any"`
	Text    string    `xml:",chardata"`
}

func parseEntry(entries map[string]*zip.File, name string) (*xmlNode, error) {
	raw, err := readEntry(entries, name)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: entry missing", name)
	}

	var root xmlNode
	if err := xml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &root, nil
}

// shapeTree returns the children of the slide's p:spTree element.
func shapeTree(root *xmlNode) []xmlNode {
	tree := findFirst(root, nsPresentation, "spTree")
	if tree == nil {
		return nil
	}
	return tree.Nodes
}

func findFirst(n *xmlNode, space, local string) *xmlNode {
	if n.XMLName.Space == space && n.XMLName.Local == local {
		return n
	}
	for i := range n.Nodes {
		if found := findFirst(&n.Nodes[i], space, local); found != nil {
			return found
		}
	}
	return nil
}

// collectTexts gathers one text fragment per shape with a text body, in
// document order, descending into group shapes.
func collectTexts(shapes []xmlNode) []string {
	var texts []string
	for i := range shapes {
		n := &shapes[i]
		switch {
		case n.XMLName.Space == nsPresentation && n.XMLName.Local == "sp":
			if text := shapeText(n); text != "" {
				texts = append(texts, text)
			}
		case n.XMLName.Space == nsPresentation && n.XMLName.Local == "grpSp":
			texts = append(texts, collectTexts(n.Nodes)...)
		}
	}
	return texts
}

// shapeText extracts the shape's text: runs concatenated within a paragraph,
// paragraphs joined with newlines.
func shapeText(shape *xmlNode) string {
	var lines []string
	var walk func(n *xmlNode)
	walk = func(n *xmlNode) {
		if n.XMLName.Space == nsDrawing && n.XMLName.Local == "p" {
			var line strings.Builder
			collectRuns(n, &line)
			lines = append(lines, line.String())
			return
		}
		for i := range n.Nodes {
			walk(&n.Nodes[i])
		}
	}
	walk(shape)
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func collectRuns(n *xmlNode, out *strings.Builder) {
	if n.XMLName.Space == nsDrawing && n.XMLName.Local == "t" {
		out.WriteString(n.Text)
		return
	}
	for i := range n.Nodes {
		collectRuns(&n.Nodes[i], out)
	}
}

// containsNonText reports whether any shape in the tree is classified as
// non-text by the policy, descending into group shapes.
func containsNonText(shapes []xmlNode, policy extract.Policy) bool {
	for i := range shapes {
		n := &shapes[i]
		if n.XMLName.Space != nsPresentation {
			continue
		}
		if policy.IsNonText(n.XMLName.Local) {
			return true
		}
		if n.XMLName.Local == "grpSp" && containsNonText(n.Nodes, policy) {
			return true
		}
	}
	return false
}
