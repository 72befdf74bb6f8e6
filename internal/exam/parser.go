package exam

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	headingRe  = regexp.MustCompile(`^###\s*Câu\s*(\d+)\s*$`)
	answerRe   = regexp.MustCompile(`\*\*Câu\s*(\d+)\s*:\s*([A-D])\*\*`)
	optionRe   = regexp.MustCompile(`\*\*([A-D])\.\*\*`)
	boundaryRe = regexp.MustCompile(`\n\n\*\*[A-D]\.\*\*`)
)

// Parse extracts the ordered question list and answer key from a raw exam
// document. It is a pure function: same text, same result.
//
// A question block opens at a "### Câu N" heading line and closes at a "---"
// separator line; a block still open at end of input is discarded. Within a
// block, option segments start at a "**X.**" marker (X in A-D) and run until
// a blank line followed by another marker, or block end. The prompt is the
// block body with option segments removed.
//
// A block is kept only when the prompt is non-empty and exactly four distinct
// option labels were captured; anything else vanishes silently. Duplicate
// question numbers keep the last-parsed block.
func Parse(raw string) ParsedExam {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	key := parseAnswerKey(raw)

	byNumber := make(map[int]Question)
	for _, b := range scanBlocks(raw) {
		q, ok := buildQuestion(b)
		if !ok {
			continue
		}
		q.CorrectAnswer = key[q.Number]
		byNumber[q.Number] = q
	}

	nums := make([]int, 0, len(byNumber))
	for n := range byNumber {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	questions := make([]Question, 0, len(nums))
	for _, n := range nums {
		questions = append(questions, byNumber[n])
	}
	return ParsedExam{Questions: questions}
}

// parseAnswerKey scans the whole document for "**Câu N: X**" entries,
// independently of block extraction. Later entries overwrite earlier ones.
func parseAnswerKey(raw string) map[int]string {
	key := make(map[int]string)
	for _, m := range answerRe.FindAllStringSubmatch(raw, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		key[n] = m[2]
	}
	return key
}

type block struct {
	number int
	body   string
}

func scanBlocks(raw string) []block {
	var (
		blocks []block
		cur    *block
		lines  []string
	)
	for _, line := range strings.Split(raw, "\n") {
		if cur == nil {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				n, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				cur = &block{number: n}
				lines = lines[:0]
			}
			continue
		}
		if line == "---" {
			cur.body = strings.TrimSpace(strings.Join(lines, "\n"))
			blocks = append(blocks, *cur)
			cur = nil
			continue
		}
		lines = append(lines, line)
	}
	// a block with no terminating separator never completes
	return blocks
}

func buildQuestion(b block) (Question, bool) {
	opts, cuts := scanOptions(b.body)
	prompt := cutSegments(b.body, cuts)
	if prompt == "" || len(opts) != OptionCount {
		return Question{}, false
	}
	return Question{Number: b.number, Prompt: prompt, Options: opts}, true
}

// scanOptions walks the block body left to right collecting labeled option
// segments. It returns the label->text map and the [start,end) spans the
// segments occupy, for prompt extraction.
func scanOptions(body string) (map[string]string, [][2]int) {
	opts := make(map[string]string)
	var cuts [][2]int

	pos := 0
	for pos < len(body) {
		loc := optionRe.FindStringSubmatchIndex(body[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		label := body[pos+loc[2] : pos+loc[3]]

		segEnd := len(body)
		if b := boundaryRe.FindStringIndex(body[end:]); b != nil {
			segEnd = end + b[0]
		}
		opts[label] = strings.TrimSpace(body[end:segEnd])
		cuts = append(cuts, [2]int{start, segEnd})

		if segEnd == len(body) {
			break
		}
		pos = segEnd
	}
	return opts, cuts
}

func cutSegments(body string, cuts [][2]int) string {
	if len(cuts) == 0 {
		return strings.TrimSpace(body)
	}
	var sb strings.Builder
	prev := 0
	for _, c := range cuts {
		sb.WriteString(body[prev:c[0]])
		prev = c[1]
	}
	sb.WriteString(body[prev:])
	return strings.TrimSpace(sb.String())
}
