package exam

import (
	"reflect"
	"strconv"
	"strings"
	"testing"
)

const sampleExam = `# SAA-C03 Practice Exam

### Câu 7
What does S3 provide?

**A.** Block storage

**B.** Object storage

**C.** A relational database

**D.** A message queue

---

### Câu 2
Pick the managed DNS service.

**A.** Route 53

**B.** CloudFront

**C.** Direct Connect

**D.** Snowball

---

### Câu 9
Only three options here.

**A.** One

**B.** Two

**C.** Three

---

## Đáp án

**Câu 2: A**

**Câu 7: C**

**Câu 9: B**
`

func TestParseExtractsQuestions(t *testing.T) {
	parsed := Parse(sampleExam)
	if len(parsed.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(parsed.Questions))
	}
	// sorted ascending by number
	if parsed.Questions[0].Number != 2 || parsed.Questions[1].Number != 7 {
		t.Fatalf("unexpected order: %d, %d", parsed.Questions[0].Number, parsed.Questions[1].Number)
	}
	for _, q := range parsed.Questions {
		if len(q.Options) != OptionCount {
			t.Fatalf("question %d: expected 4 options, got %d", q.Number, len(q.Options))
		}
		if q.Prompt == "" {
			t.Fatalf("question %d: empty prompt", q.Number)
		}
	}

	q7 := parsed.Questions[1]
	if q7.Prompt != "What does S3 provide?" {
		t.Fatalf("unexpected prompt: %q", q7.Prompt)
	}
	if q7.Options["B"] != "Object storage" {
		t.Fatalf("unexpected option B: %q", q7.Options["B"])
	}
	if q7.CorrectAnswer != "C" {
		t.Fatalf("expected key C for question 7, got %q", q7.CorrectAnswer)
	}
	if parsed.Questions[0].CorrectAnswer != "A" {
		t.Fatalf("expected key A for question 2, got %q", parsed.Questions[0].CorrectAnswer)
	}
}

func TestParseDropsBlockWithThreeOptions(t *testing.T) {
	parsed := Parse(sampleExam)
	for _, q := range parsed.Questions {
		if q.Number == 9 {
			t.Fatalf("question 9 has 3 options and must be dropped")
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	a := Parse(sampleExam)
	b := Parse(sampleExam)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated parses differ")
	}
}

func TestParseAnswerKeyLastWins(t *testing.T) {
	doc := singleQuestion(7) + "\n**Câu 7: A**\n\n**Câu 7: D**\n"
	parsed := Parse(doc)
	if len(parsed.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(parsed.Questions))
	}
	if got := parsed.Questions[0].CorrectAnswer; got != "D" {
		t.Fatalf("expected later key D to win, got %q", got)
	}
}

func TestParseMissingKeyKeepsQuestion(t *testing.T) {
	parsed := Parse(singleQuestion(3))
	if len(parsed.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(parsed.Questions))
	}
	if parsed.Questions[0].CorrectAnswer != "" {
		t.Fatalf("expected absent key, got %q", parsed.Questions[0].CorrectAnswer)
	}
}

func TestParseUnterminatedBlockDropped(t *testing.T) {
	doc := singleQuestion(1)
	doc = strings.TrimSuffix(strings.TrimSpace(doc), "---")
	parsed := Parse(doc)
	if len(parsed.Questions) != 0 {
		t.Fatalf("block without separator must be dropped, got %d questions", len(parsed.Questions))
	}
}

func TestParseDuplicateNumberLastWins(t *testing.T) {
	first := singleQuestion(5)
	second := strings.Replace(singleQuestion(5), "Which label matches the key?", "Second wording.", 1)
	parsed := Parse(first + "\n" + second)
	if len(parsed.Questions) != 1 {
		t.Fatalf("expected duplicate collapse to 1 question, got %d", len(parsed.Questions))
	}
	if parsed.Questions[0].Prompt != "Second wording." {
		t.Fatalf("expected last block to win, got %q", parsed.Questions[0].Prompt)
	}
}

func TestParseEmptyPromptDropped(t *testing.T) {
	doc := "### Câu 4\n**A.** a\n\n**B.** b\n\n**C.** c\n\n**D.** d\n---\n"
	parsed := Parse(doc)
	if len(parsed.Questions) != 0 {
		t.Fatalf("options-only block must be dropped, got %d questions", len(parsed.Questions))
	}
}

func TestParseHandlesCRLF(t *testing.T) {
	doc := strings.ReplaceAll(singleQuestion(6), "\n", "\r\n")
	parsed := Parse(doc)
	if len(parsed.Questions) != 1 {
		t.Fatalf("CRLF document must parse, got %d questions", len(parsed.Questions))
	}
}

func TestParseIgnoresSurroundingText(t *testing.T) {
	doc := "intro text\n\n" + singleQuestion(8) + "\ntrailing notes\n"
	parsed := Parse(doc)
	if len(parsed.Questions) != 1 || parsed.Questions[0].Number != 8 {
		t.Fatalf("text between blocks must be discarded")
	}
}

// singleQuestion builds one well-formed block numbered n, without a key entry.
func singleQuestion(n int) string {
	doc := `### Câu N
Which label matches the key?

**A.** Alpha

**B.** Beta

**C.** Gamma

**D.** Delta

---
`
	return strings.Replace(doc, "Câu N", "Câu "+strconv.Itoa(n), 1)
}
