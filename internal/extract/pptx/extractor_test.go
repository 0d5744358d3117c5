package pptx

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckhound/deckhound/internal/extract"
)

// writeDeck builds a minimal .pptx (a zip of XML parts) on disk.
func writeDeck(t *testing.T, parts map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "deck.pptx")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	for name, content := range parts {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func presentationPart(rids ...string) string {
	ids := ""
	for i, rid := range rids {
		ids += fmt.Sprintf(`<p:sldId id="%d" r:id="%s"/>`, 256+i, rid)
	}
	return `<p:presentation xmlns:p="` + nsPresentation + `" xmlns:r="` + nsRelationships + `">` +
		`<p:sldIdLst>` + ids + `</p:sldIdLst></p:presentation>`
}

func relsPart(rels map[string]string) string {
	body := ""
	for id, target := range rels {
		body += fmt.Sprintf(`<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="%s"/>`, id, target)
	}
	return `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		body + `</Relationships>`
}

// slidePart builds a slide whose shape tree holds the given inner XML.
func slidePart(shapes string) string {
	return `<p:sld xmlns:p="` + nsPresentation + `" xmlns:a="` + nsDrawing + `">` +
		`<p:cSld><p:spTree>` + shapes + `</p:spTree></p:cSld></p:sld>`
}

func textShape(paragraphs ...string) string {
	body := ""
	for _, p := range paragraphs {
		body += `<a:p><a:r><a:t>` + p + `</a:t></a:r></a:p>`
	}
	return `<p:sp><p:txBody>` + body + `</p:txBody></p:sp>`
}

func TestExtractSlidesFollowsSlideIDList(t *testing.T) {
	// rId2 comes first in sldIdLst, so slide2.xml is ordinal 1.
	deck := writeDeck(t, map[string]string{
		"ppt/presentation.xml":            presentationPart("rId2", "rId1"),
		"ppt/_rels/presentation.xml.rels": relsPart(map[string]string{"rId1": "slides/slide1.xml", "rId2": "slides/slide2.xml"}),
		"ppt/slides/slide1.xml":           slidePart(textShape("First entry")),
		"ppt/slides/slide2.xml":           slidePart(textShape("Second entry")),
	})

	records, err := New().ExtractSlides(context.Background(), deck)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].Ordinal)
	assert.Equal(t, "Second entry", records[0].Text())
	assert.Equal(t, 2, records[1].Ordinal)
	assert.Equal(t, "First entry", records[1].Text())
}

func TestExtractSlidesFallbackNumericOrder(t *testing.T) {
	// No presentation part: entries sort by slide number, not lexically.
	deck := writeDeck(t, map[string]string{
		"ppt/slides/slide10.xml": slidePart(textShape("ten")),
		"ppt/slides/slide2.xml":  slidePart(textShape("two")),
		"ppt/slides/slide1.xml":  slidePart(textShape("one")),
	})

	records, err := New().ExtractSlides(context.Background(), deck)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "one", records[0].Text())
	assert.Equal(t, "two", records[1].Text())
	assert.Equal(t, "ten", records[2].Text())
}

func TestExtractSlidesText(t *testing.T) {
	shapes := `<p:sp><p:txBody>` +
		`<a:p><a:r><a:t>Hello </a:t></a:r><a:r><a:t>world</a:t></a:r></a:p>` +
		`<a:p><a:r><a:t>Second line</a:t></a:r></a:p>` +
		`</p:txBody></p:sp>` +
		textShape("Another frame")
	deck := writeDeck(t, map[string]string{
		"ppt/slides/slide1.xml": slidePart(shapes),
	})

	records, err := New().ExtractSlides(context.Background(), deck)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Runs concatenate within a paragraph, paragraphs join with newlines,
	// frames stay separate fragments.
	assert.Equal(t, []string{"Hello world\nSecond line", "Another frame"}, records[0].Texts)
	assert.Equal(t, "Hello world\nSecond line\n\nAnother frame", records[0].Text())
}

func TestExtractSlidesGroupShapes(t *testing.T) {
	shapes := `<p:grpSp>` + textShape("Grouped text") + `</p:grpSp>`
	deck := writeDeck(t, map[string]string{
		"ppt/slides/slide1.xml": slidePart(shapes),
	})

	records, err := New().ExtractSlides(context.Background(), deck)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Grouped text", records[0].Text())
}

func TestExtractSlidesTextOnlyClassification(t *testing.T) {
	deck := writeDeck(t, map[string]string{
		"ppt/slides/slide1.xml": slidePart(textShape("words only")),
		"ppt/slides/slide2.xml": slidePart(textShape("with picture") + `<p:pic/>`),
		"ppt/slides/slide3.xml": slidePart(`<p:grpSp>` + textShape("nested") + `<p:pic/></p:grpSp>`),
	})

	records, err := New().ExtractSlides(context.Background(), deck)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.True(t, records[0].TextOnly)
	assert.False(t, records[1].TextOnly, "picture shape makes the slide mixed")
	assert.False(t, records[2].TextOnly, "picture inside a group still counts")
}

func TestExtractSlidesCustomPolicy(t *testing.T) {
	deck := writeDeck(t, map[string]string{
		"ppt/slides/slide1.xml": slidePart(textShape("with picture") + `<p:pic/>`),
	})

	// An empty policy classifies everything text-only.
	extractor := NewWithConfig(Config{NonTextShapes: []string{}})
	records, err := extractor.ExtractSlides(context.Background(), deck)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].TextOnly)
}

func TestExtractSlidesRenderSizes(t *testing.T) {
	deck := writeDeck(t, map[string]string{
		"ppt/slides/slide1.xml": slidePart(textShape("sized")),
	})

	extractor := NewWithConfig(Config{ThumbHeight: 90, HiresHeight: 180})
	records, err := extractor.ExtractSlides(context.Background(), deck)
	require.NoError(t, err)
	require.Len(t, records, 1)

	thumb := records[0].Thumbnail.Bounds()
	assert.Equal(t, 90, thumb.Dy())
	assert.Equal(t, 160, thumb.Dx())

	hires := records[0].Hires.Bounds()
	assert.Equal(t, 180, hires.Dy())
	assert.Equal(t, 320, hires.Dx())
}

func TestExtractSlidesNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pptx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip at all"), 0644))

	_, err := New().ExtractSlides(context.Background(), path)
	require.Error(t, err)

	var extractErr *extract.ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, path, extractErr.Path)
}

func TestExtractSlidesEmptyDeck(t *testing.T) {
	deck := writeDeck(t, map[string]string{
		"docProps/core.xml": `<coreProperties/>`,
	})

	_, err := New().ExtractSlides(context.Background(), deck)
	var extractErr *extract.ExtractionError
	require.ErrorAs(t, err, &extractErr)
}

func TestExtractSlidesMissingRelationship(t *testing.T) {
	deck := writeDeck(t, map[string]string{
		"ppt/presentation.xml":            presentationPart("rId1"),
		"ppt/_rels/presentation.xml.rels": relsPart(map[string]string{"rId9": "slides/slide1.xml"}),
		"ppt/slides/slide1.xml":           slidePart(textShape("orphan")),
	})

	_, err := New().ExtractSlides(context.Background(), deck)
	var extractErr *extract.ExtractionError
	require.ErrorAs(t, err, &extractErr)
}

func TestExtractSlidesCancelledContext(t *testing.T) {
	deck := writeDeck(t, map[string]string{
		"ppt/slides/slide1.xml": slidePart(textShape("never read")),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().ExtractSlides(ctx, deck)
	assert.ErrorIs(t, err, context.Canceled)
}
