package summary

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	defaultHeading   = "Summary"
	timedHeading     = "Content"
	questionsHeading = "Questions Asked"
	fallbackHeading  = "Section"

	maxLooseHeadingLength = 80
)

var (
	timestampRe = regexp.MustCompile(`\[(\d{1,2}:\d{2}(?::\d{2})?)\]`)
	headingRe   = regexp.MustCompile(`^#{1,6}\s+(\S.*)$`)
	timedLineRe = regexp.MustCompile(`^\[\d{1,2}:\d{2}(?::\d{2})?\]`)
	questionRe  = regexp.MustCompile(`^(?:Q|Question):\s*(?:\[(\d{1,2}:\d{2}(?::\d{2})?)\]\s*)?(.*)$`)
	bulletRe    = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+(.*)$`)
)

type lineKind int

const (
	lineHeading lineKind = iota
	lineQuestion
	lineText
)

type line struct {
	kind      lineKind
	raw       string
	heading   string
	timestamp string
	body      string
}

type Options struct {
	// Permissive also treats short lines ending in a colon, or written in
	// upper case, as headings.
	Permissive bool
}

// Segmenter turns model output into sections. Lines are classified one at a
// time, in order of precedence heading > question > text, and the builder
// groups them. Classification does not depend on context.
type Segmenter struct {
	permissive bool
}

func NewSegmenter(opts Options) *Segmenter {
	return &Segmenter{permissive: opts.Permissive}
}

// Segment splits text with the strict rules.
func Segment(text string) []Section {
	return NewSegmenter(Options{}).Segment(text)
}

func (s *Segmenter) Segment(text string) []Section {
	b := &builder{}
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		b.add(s.classify(raw))
	}
	b.close()

	for i := range b.sections {
		markAnswers(b.sections[i].Paragraphs)
	}

	return b.sections
}

func (s *Segmenter) classify(raw string) line {
	if m := headingRe.FindStringSubmatch(raw); m != nil {
		return headingLine(raw, m[1])
	}
	if timedLineRe.MatchString(raw) {
		return headingLine(raw, raw)
	}
	if m := questionRe.FindStringSubmatch(raw); m != nil {
		return line{kind: lineQuestion, raw: raw, timestamp: m[1], body: m[2]}
	}
	if s.permissive && isLooseHeading(raw) {
		return headingLine(raw, strings.TrimSuffix(raw, ":"))
	}

	return line{kind: lineText, raw: raw, body: raw}
}

func headingLine(raw, body string) line {
	l := line{kind: lineHeading, raw: raw}
	if m := timestampRe.FindStringSubmatch(body); m != nil {
		l.timestamp = m[1]
	}
	l.heading = collapse(timestampRe.ReplaceAllString(body, " "))
	l.heading = strings.TrimSpace(strings.TrimSuffix(l.heading, ":"))
	if l.heading == "" && l.timestamp == "" {
		l.heading = fallbackHeading
	}

	return l
}

func isLooseHeading(raw string) bool {
	if utf8.RuneCountInString(raw) >= maxLooseHeadingLength {
		return false
	}
	if strings.HasSuffix(raw, ":") {
		return true
	}

	return hasLetter(raw) && strings.ToUpper(raw) == raw
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

type builder struct {
	sections []Section
	current  *Section
}

func (b *builder) add(l line) {
	switch l.kind {
	case lineHeading:
		b.open(l.heading, l.timestamp)
	case lineQuestion:
		if b.current == nil || !b.current.IsQuestions() {
			b.open(questionsHeading, "")
		}
		b.append(newParagraph(KindQuestion, l.raw, l.body, l.timestamp))
	default:
		if b.current == nil {
			heading := defaultHeading
			if timestampRe.MatchString(l.raw) {
				heading = timedHeading
			}
			b.open(heading, "")
		}
		kind, body := KindPlain, l.body
		if m := bulletRe.FindStringSubmatch(l.body); m != nil {
			kind, body = KindBullet, m[1]
		}
		b.append(newParagraph(kind, l.raw, body, ""))
	}
}

func (b *builder) open(heading, timestamp string) {
	b.close()
	b.current = &Section{Heading: heading, Timestamp: timestamp}
}

func (b *builder) append(p Paragraph) {
	b.current.Paragraphs = append(b.current.Paragraphs, p)
}

func (b *builder) close() {
	if b.current == nil {
		return
	}
	b.sections = append(b.sections, *b.current)
	b.current = nil
}

// newParagraph extracts the inline timestamps of body as badge spans. A lead
// timestamp, taken from the line prefix, becomes the first span.
func newParagraph(kind Kind, raw, body, lead string) Paragraph {
	p := Paragraph{Kind: kind, Raw: raw, Timestamp: lead}
	if lead != "" {
		p.Spans = append(p.Spans, Span{Timestamp: lead})
	}
	p.Spans = append(p.Spans, splitSpans(body)...)

	var text []string
	for _, span := range p.Spans {
		if span.Timestamp != "" {
			if p.Timestamp == "" {
				p.Timestamp = span.Timestamp
			}
			continue
		}
		text = append(text, span.Text)
	}
	p.Text = collapse(strings.Join(text, " "))

	return p
}

func splitSpans(s string) []Span {
	var spans []Span
	pos := 0
	for _, m := range timestampRe.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > pos {
			spans = append(spans, Span{Text: s[pos:m[0]]})
		}
		spans = append(spans, Span{Timestamp: s[m[2]:m[3]]})
		pos = m[1]
	}
	if pos < len(s) {
		spans = append(spans, Span{Text: s[pos:]})
	}

	return spans
}

// markAnswers turns the paragraph directly after a question into its answer.
func markAnswers(paragraphs []Paragraph) {
	for i := 1; i < len(paragraphs); i++ {
		if paragraphs[i-1].Kind == KindQuestion && paragraphs[i].Kind != KindQuestion {
			paragraphs[i].Kind = KindAnswer
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
