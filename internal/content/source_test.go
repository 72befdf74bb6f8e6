package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sourceDoc = "### Câu 1\n" +
	"Prompt\n\n" +
	"**A.** a\n\n**B.** b\n\n**C.** c\n\n**D.** d\n" +
	"\n---\n" +
	"**Câu 1: C**\n"

func TestFSSourceReadsDocument(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "exam.md"), []byte(sourceDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := NewFSSource(dir, "exam.md")
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	text, err := src.ExamText(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if text != sourceDoc {
		t.Fatalf("document mangled: %q", text)
	}
}

func TestFSSourceMissingFile(t *testing.T) {
	src, err := NewFSSource(t.TempDir(), "absent.md")
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	if _, err := src.ExamText(context.Background()); err == nil {
		t.Fatal("expected read error for missing file")
	}
}

func TestFSSourceRejectsEmptyFileName(t *testing.T) {
	if _, err := NewFSSource(t.TempDir(), ""); err == nil {
		t.Fatal("expected error for empty file name")
	}
}

func TestProviderParsesAndCaches(t *testing.T) {
	p := NewExamProvider(StaticSource(sourceDoc))
	parsed, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(parsed.Questions) != 1 || parsed.Questions[0].CorrectAnswer != "C" {
		t.Fatalf("unexpected parse: %+v", parsed.Questions)
	}

	again, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(again.Questions) != 1 {
		t.Fatalf("cached parse diverged: %+v", again.Questions)
	}
}
