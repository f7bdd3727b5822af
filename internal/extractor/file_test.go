package extractor_test

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"summabot/internal/extractor"
	"testing"

	"github.com/gomutex/godocx"
	"github.com/stretchr/testify/require"
)

func TestFileTxtUTF8Unchanged(t *testing.T) {
	in := "Grüße, мир!\nsecond line\n"

	got, err := extractor.File("notes.txt", []byte(in))
	require.NoError(t, err)
	require.Equal(t, in, got)
}

func TestFileTxtFallsBackToLatin1(t *testing.T) {
	// "café" in ISO-8859-1, invalid as UTF-8.
	in := []byte{'c', 'a', 'f', 0xe9}

	got, err := extractor.File("menu.txt", in)
	require.NoError(t, err)
	require.Equal(t, "café", got)
}

func TestFileUnsupportedSuffixIsSilent(t *testing.T) {
	got, err := extractor.File("slides.pptx", []byte("whatever"))
	require.NoError(t, err)
	require.Empty(t, got)

	require.False(t, extractor.SupportedFile("slides.pptx"))
	require.True(t, extractor.SupportedFile("Report.PDF"))
}

func TestFileSuffixIsCaseInsensitive(t *testing.T) {
	got, err := extractor.File("README.TXT", []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "hello", got)
}

func TestFileDocxParagraphs(t *testing.T) {
	doc, err := godocx.NewDocument()
	require.NoError(t, err)

	doc.AddParagraph("First paragraph.")
	doc.AddParagraph("Second paragraph.")

	path := filepath.Join(t.TempDir(), "doc.docx")
	require.NoError(t, doc.SaveTo(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	got, err := extractor.File("doc.docx", data)
	require.NoError(t, err)
	require.Contains(t, got, "First paragraph.\nSecond paragraph.")
}

func TestFileDocxRejectsGarbage(t *testing.T) {
	_, err := extractor.File("broken.docx", []byte("not a zip"))
	require.Error(t, err)
}

func TestFilePdfRejectsGarbage(t *testing.T) {
	_, err := extractor.File("broken.pdf", []byte("%PDF-not-really"))
	require.Error(t, err)
}

const textBoxDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
 xmlns:v="urn:schemas-microsoft-com:vml">
<w:body>
<w:p>
<w:r><w:t>Before box.</w:t></w:r>
<w:r><w:pict><v:shape><v:textbox><w:txbxContent>
<w:p><w:r><w:t>Inside box.</w:t></w:r></w:p>
</w:txbxContent></v:textbox></v:shape></w:pict></w:r>
<w:r><w:t xml:space="preserve"> After box.</w:t></w:r>
</w:p>
<w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>
</w:body>
</w:document>`

func docxWithDocumentXML(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)

	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestFileDocxSkipsTextBoxParagraphs(t *testing.T) {
	got, err := extractor.File("boxed.docx", docxWithDocumentXML(t, textBoxDocumentXML))
	require.NoError(t, err)
	require.Equal(t, "Before box. After box.\nSecond paragraph.", got)
}

// buildPDF writes a minimal uncompressed PDF with one content stream per page.
// An empty content string gives a page without text.
func buildPDF(pages []string) []byte {
	var objects []string

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d "+
			"/Resources << /Font << /F1 3 0 R >> >> /MediaBox [0 0 612 792] >>", kids, len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, text := range pages {
		content := "q Q"
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf (%s) Tj ET", text)
		}

		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefOffset)

	return buf.Bytes()
}

func TestFilePdfJoinsPagesAndSkipsEmptyOnes(t *testing.T) {
	data := buildPDF([]string{"First page", "", "Third page"})

	got, err := extractor.File("report.pdf", data)
	require.NoError(t, err)
	require.Equal(t, "First page\nThird page", got)
}

func TestFilePdfTruncatedReturnsError(t *testing.T) {
	data := buildPDF([]string{"First page", "Second page"})

	require.NotPanics(t, func() {
		_, err := extractor.File("truncated.pdf", data[:len(data)/2])
		require.Error(t, err)
	})
}
