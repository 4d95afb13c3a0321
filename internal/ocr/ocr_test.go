package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/nishant-rao/legal-summarizer/internal/common"
)

// fakeRunner scripts command outputs by binary name.
type fakeRunner struct {
	calls   []string
	outputs map[string]string
	errs    map[string]error

	// renderPages, when set, drops that many fake page images for pdftoppm.
	renderPages int
	// echoPage makes tesseract return its input filename, to observe page order.
	echoPage bool
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, name)
	if err, ok := f.errs[name]; ok {
		return nil, []byte("boom"), err
	}
	if name == "pdftoppm" && f.renderPages > 0 {
		prefix := args[len(args)-1]
		for i := 1; i <= f.renderPages; i++ {
			os.WriteFile(prefix+"-"+strconv.Itoa(i)+".png", []byte("png"), 0o644)
		}
	}
	if name == "tesseract" && f.echoPage {
		return []byte(filepath.Base(args[0])), nil, nil
	}
	return []byte(f.outputs[name]), nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtractTextPDFWithTextLayer(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outputs: map[string]string{"pdftotext": "The FIR narrates the incident."}}
	e := newExtractor(common.OCRConfig{}, runner, testLogger())

	got, err := e.ExtractText(context.Background(), "case.pdf")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "The FIR narrates the incident." {
		t.Errorf("text = %q", got)
	}
	if len(runner.calls) != 1 || runner.calls[0] != "pdftotext" {
		t.Errorf("calls = %v, want single pdftotext", runner.calls)
	}
}

func TestExtractTextPDFFallsBackToRaster(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		outputs:     map[string]string{"pdftotext": "  \n ", "tesseract": "scanned page text"},
		renderPages: 2,
	}
	e := newExtractor(common.OCRConfig{WorkDir: t.TempDir()}, runner, testLogger())

	got, err := e.ExtractText(context.Background(), "scan.pdf")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "scanned page text\nscanned page text" {
		t.Errorf("text = %q", got)
	}
	want := []string{"pdftotext", "pdftoppm", "tesseract", "tesseract"}
	if strings.Join(runner.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", runner.calls, want)
	}
}

func TestExtractTextImage(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outputs: map[string]string{"tesseract": "seizure memo"}}
	e := newExtractor(common.OCRConfig{Language: "eng"}, runner, testLogger())

	got, err := e.ExtractText(context.Background(), filepath.Join("in", "memo.jpg"))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "seizure memo" {
		t.Errorf("text = %q", got)
	}
}

func TestExtractTextCommandFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{errs: map[string]error{"tesseract": errors.New("exit status 1")}}
	e := newExtractor(common.OCRConfig{}, runner, testLogger())

	if _, err := e.ExtractText(context.Background(), "memo.png"); err == nil {
		t.Error("expected error from failing tesseract")
	}
}

func TestRasterOCRPageOrder(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		outputs:     map[string]string{"pdftotext": ""},
		renderPages: 12,
		echoPage:    true,
	}
	e := newExtractor(common.OCRConfig{WorkDir: t.TempDir()}, runner, testLogger())

	got, err := e.ExtractText(context.Background(), "long-scan.pdf")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	var want []string
	for i := 1; i <= 12; i++ {
		want = append(want, fmt.Sprintf("page-%d.png", i))
	}
	if got != strings.Join(want, "\n") {
		t.Errorf("pages stitched out of order:\n got %q\nwant %q", got, strings.Join(want, "\n"))
	}
}

func TestNewExtractorRunnerTimeout(t *testing.T) {
	t.Parallel()

	e := NewExtractor(common.OCRConfig{CommandTimeout: time.Minute}, testLogger())
	r, ok := e.runner.(ExecRunner)
	if !ok {
		t.Fatalf("runner is %T, want ExecRunner", e.runner)
	}
	if r.Timeout != time.Minute {
		t.Errorf("Timeout = %v, want %v", r.Timeout, time.Minute)
	}
}
