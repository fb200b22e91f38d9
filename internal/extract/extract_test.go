package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeEngine implements ocr.Engine with canned output.
type fakeEngine struct {
	text      string
	err       error
	callCount int
	lastImage []byte
}

func (f *fakeEngine) Recognize(_ context.Context, img []byte) (string, error) {
	f.callCount++
	f.lastImage = img
	return f.text, f.err
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"report.pdf", FormatPDF, false},
		{"REPORT.PDF", FormatPDF, false},
		{"notes.docx", FormatDOCX, false},
		{"readme.txt", FormatTXT, false},
		{"data.csv", FormatCSV, false},
		{"app.db", FormatSQLite, false},
		{"app.sqlite3", FormatSQLite, false},
		{"scan.jpg", FormatImage, false},
		{"scan.jpeg", FormatImage, false},
		{"scan.png", FormatImage, false},
		{"archive.tar.gz", FormatUnknown, true},
		{"presentation.pptx", FormatUnknown, true},
		{"noextension", FormatUnknown, true},
		{"", FormatUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := ParseFormat(tt.filename)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.filename, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) failed: %v", tt.filename, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestExtract_TXT(t *testing.T) {
	e := New(&fakeEngine{})

	doc, err := e.Extract(context.Background(), FormatTXT, []byte("hello\nworld"), "readme.txt")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if doc.Text != "hello\nworld" {
		t.Errorf("Text = %q", doc.Text)
	}
	if doc.Paged() {
		t.Error("txt documents must not be paged")
	}
	if doc.Filename != "readme.txt" {
		t.Errorf("Filename = %q", doc.Filename)
	}
}

func TestExtract_TXT_InvalidUTF8(t *testing.T) {
	e := New(&fakeEngine{})

	_, err := e.Extract(context.Background(), FormatTXT, []byte{0xFF, 0xFE, 0xFD}, "bad.txt")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction", err)
	}
}

func TestExtract_CSV(t *testing.T) {
	csvData := "name,capital\nFrance,Paris\nJapan,Tokyo\n"

	e := New(&fakeEngine{})
	doc, err := e.Extract(context.Background(), FormatCSV, []byte(csvData), "capitals.csv")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for _, want := range []string{"name", "capital", "France", "Paris", "Japan", "Tokyo"} {
		if !strings.Contains(doc.Text, want) {
			t.Errorf("rendered table missing %q:\n%s", want, doc.Text)
		}
	}
	// Each source row stays on its own output line so the chunker can
	// split between rows.
	lines := strings.Split(doc.Text, "\n")
	var parisLine, tokyoLine string
	for _, l := range lines {
		if strings.Contains(l, "Paris") {
			parisLine = l
		}
		if strings.Contains(l, "Tokyo") {
			tokyoLine = l
		}
	}
	if parisLine == "" || tokyoLine == "" || parisLine == tokyoLine {
		t.Errorf("rows not on separate lines:\n%s", doc.Text)
	}
	if strings.HasSuffix(doc.Text, "\n") {
		t.Error("rendered table must not carry a trailing newline")
	}
}

func TestExtract_CSV_Empty(t *testing.T) {
	e := New(&fakeEngine{})
	_, err := e.Extract(context.Background(), FormatCSV, nil, "empty.csv")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction", err)
	}
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("creating archive entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("writing document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

func TestExtract_DOCX(t *testing.T) {
	const documentXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t><w:br/><w:t>with break</w:t></w:r></w:p>
    <w:p><w:r><w:t>Third</w:t><w:tab/><w:t>tabbed</w:t></w:r></w:p>
  </w:body>
</w:document>`

	e := New(&fakeEngine{})
	doc, err := e.Extract(context.Background(), FormatDOCX, buildDOCX(t, documentXML), "notes.docx")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := "First paragraph.\nSecond\nwith break\nThird\ttabbed"
	if doc.Text != want {
		t.Errorf("Text = %q, want %q", doc.Text, want)
	}
}

func TestExtract_DOCX_NotAnArchive(t *testing.T) {
	e := New(&fakeEngine{})
	_, err := e.Extract(context.Background(), FormatDOCX, []byte("plain text, not a zip"), "bad.docx")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction", err)
	}
}

func TestExtract_DOCX_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = w.Write([]byte("<styles/>"))
	_ = zw.Close()

	e := New(&fakeEngine{})
	_, err = e.Extract(context.Background(), FormatDOCX, buf.Bytes(), "hollow.docx")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction", err)
	}
}

func buildSQLite(t *testing.T) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening fixture db: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	stmts := []string{
		`CREATE TABLE countries (name TEXT, capital TEXT, population INTEGER)`,
		`INSERT INTO countries VALUES ('France', 'Paris', 68000000)`,
		`INSERT INTO countries VALUES ('Japan', 'Tokyo', NULL)`,
		`CREATE TABLE notes (body TEXT)`,
		`INSERT INTO notes VALUES ('remember the milk')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("executing %q: %v", stmt, err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("closing fixture db: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture db: %v", err)
	}
	return data
}

func TestExtract_SQLite(t *testing.T) {
	e := New(&fakeEngine{})
	doc, err := e.Extract(context.Background(), FormatSQLite, buildSQLite(t), "fixture.db")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for _, want := range []string{
		"Table: countries",
		"Table: notes",
		"France", "Paris", "68000000",
		"remember the milk",
	} {
		if !strings.Contains(doc.Text, want) {
			t.Errorf("dump missing %q:\n%s", want, doc.Text)
		}
	}
	// NULL renders as empty, not the string "NULL" or "<nil>".
	if strings.Contains(doc.Text, "<nil>") || strings.Contains(doc.Text, "NULL") {
		t.Errorf("NULL value leaked into dump:\n%s", doc.Text)
	}
}

func TestExtract_SQLite_Corrupt(t *testing.T) {
	e := New(&fakeEngine{})
	_, err := e.Extract(context.Background(), FormatSQLite, []byte("this is not a database"), "bad.db")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction", err)
	}
}

func buildPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestExtract_Image(t *testing.T) {
	engine := &fakeEngine{text: "Invoice Total: $42.00"}
	e := New(engine)

	data := buildPNG(t)
	doc, err := e.Extract(context.Background(), FormatImage, data, "invoice.png")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if doc.Text != "Invoice Total: $42.00" {
		t.Errorf("Text = %q", doc.Text)
	}
	if engine.callCount != 1 {
		t.Errorf("engine called %d times, want 1", engine.callCount)
	}
	if !bytes.Equal(engine.lastImage, data) {
		t.Error("engine must receive the original image bytes")
	}
}

func TestExtract_Image_EmptyOCR(t *testing.T) {
	// A readable image with no recognizable text is not an error.
	e := New(&fakeEngine{text: ""})

	doc, err := e.Extract(context.Background(), FormatImage, buildPNG(t), "blank.png")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if doc.Text != "" {
		t.Errorf("Text = %q, want empty", doc.Text)
	}
}

func TestExtract_Image_OCRError(t *testing.T) {
	e := New(&fakeEngine{err: errors.New("engine unavailable")})

	_, err := e.Extract(context.Background(), FormatImage, buildPNG(t), "scan.png")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction", err)
	}
}

func TestExtract_Image_Undecodable(t *testing.T) {
	e := New(&fakeEngine{})

	_, err := e.Extract(context.Background(), FormatImage, []byte("neither image nor pdf"), "junk.png")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("error = %v, want ErrExtraction", err)
	}
}

func TestExtract_PDF_Corrupt(t *testing.T) {
	e := New(&fakeEngine{})

	_, err := e.Extract(context.Background(), FormatPDF, []byte("%PDF- truncated garbage"), "bad.pdf")
	if err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

func TestExtract_UnknownFormat(t *testing.T) {
	e := New(&fakeEngine{})

	_, err := e.Extract(context.Background(), FormatUnknown, []byte("data"), "mystery")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatPDF, "pdf"},
		{FormatDOCX, "docx"},
		{FormatTXT, "txt"},
		{FormatCSV, "csv"},
		{FormatSQLite, "sqlite"},
		{FormatImage, "image"},
		{FormatUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}
