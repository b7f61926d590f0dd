package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	doc := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextDocx(t *testing.T) {
	data := buildDocx(t, "Ada Lovelace, Analyst")

	got, err := Text(context.Background(), data, mimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(got, "Ada Lovelace") {
		t.Fatalf("text = %q", got)
	}
}

func TestTextDocxFromZipMime(t *testing.T) {
	data := buildDocx(t, "hello")

	if _, err := Text(context.Background(), data, "application/zip", "resume.docx"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
}

func TestTextRejectsPlainZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = Text(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if err == nil || !strings.Contains(err.Error(), "unsupported document type") {
		t.Fatalf("err = %v", err)
	}
}

func TestTextRejectsEmpty(t *testing.T) {
	if _, err := Text(context.Background(), nil, mimePDF, "resume.pdf"); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
