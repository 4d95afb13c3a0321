package docreader

import (
	"archive/zip"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testReader() *Reader {
	return NewReader(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExtractPlainText(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "complaint.txt", "The complainant reported a theft.")
	got, err := testReader().ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "The complainant reported a theft." {
		t.Errorf("text = %q", got)
	}
}

func TestExtractHTML(t *testing.T) {
	t.Parallel()

	html := `<html><head><style>p{color:red}</style></head>` +
		`<body><script>alert(1)</script><p>Order of the court.</p><p>Bail granted.</p></body></html>`
	path := writeFile(t, "order.html", html)

	got, err := testReader().ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(got, "Order of the court.") || !strings.Contains(got, "Bail granted.") {
		t.Errorf("text = %q", got)
	}
	if strings.Contains(got, "alert") || strings.Contains(got, "color:red") {
		t.Errorf("script/style leaked into text: %q", got)
	}
}

func TestExtractDocx(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "statement.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, `<?xml version="1.0"?>`+
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`+
		`<w:body>`+
		`<w:p><w:r><w:t>First paragraph of the statement.</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>`+
		`</w:body></w:document>`)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := testReader().ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	want := "First paragraph of the statement.\nSecond paragraph."
	if got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestExtractDocxMissingDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("other.xml")
	io.WriteString(w, "<x/>")
	zw.Close()
	f.Close()

	if _, err := testReader().ExtractText(path); err == nil {
		t.Error("expected error for archive without document.xml")
	}
}

func TestExtractMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := testReader().ExtractText(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtractLegacyDocReadsPlainBytes(t *testing.T) {
	t.Parallel()

	// Legacy .doc is not a ZIP archive; it must not hit the docx path.
	path := writeFile(t, "statement.doc", "The witness statement in an old Word file.")
	got, err := testReader().ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "The witness statement in an old Word file." {
		t.Errorf("text = %q", got)
	}
}
