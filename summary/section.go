package summary

import "strings"

type Kind string

const (
	KindPlain    Kind = "plain"
	KindBullet   Kind = "bullet"
	KindQuestion Kind = "question"
	KindAnswer   Kind = "answer"
)

// Span is a piece of a paragraph: either text or a timestamp badge, never both.
type Span struct {
	Text      string `json:"text,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type Paragraph struct {
	Kind      Kind   `json:"kind"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
	Spans     []Span `json:"spans"`
	Raw       string `json:"-"`
}

type Section struct {
	Heading    string      `json:"heading"`
	Timestamp  string      `json:"timestamp,omitempty"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// IsQuestions reports whether further question lines belong in this section.
func (s Section) IsQuestions() bool {
	return strings.Contains(strings.ToLower(s.Heading), "question")
}

type QA struct {
	Question Paragraph
	Answer   *Paragraph
}

// Questions groups the question paragraphs of the section with their answers.
func (s Section) Questions() []QA {
	var qas []QA
	for i, p := range s.Paragraphs {
		if p.Kind != KindQuestion {
			continue
		}
		qa := QA{Question: p}
		if i+1 < len(s.Paragraphs) && s.Paragraphs[i+1].Kind == KindAnswer {
			answer := s.Paragraphs[i+1]
			qa.Answer = &answer
		}
		qas = append(qas, qa)
	}

	return qas
}

// Flatten writes the sections back as text. Segmenting the result yields the
// same section boundaries.
func Flatten(sections []Section) string {
	var sb strings.Builder
	for i, s := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("##")
		if s.Timestamp != "" {
			sb.WriteString(" [" + s.Timestamp + "]")
		}
		if s.Heading != "" {
			sb.WriteString(" " + s.Heading)
		}
		sb.WriteString("\n")
		for _, p := range s.Paragraphs {
			sb.WriteString(p.Raw)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
