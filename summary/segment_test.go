package summary

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentBlank(t *testing.T) {
	for _, tc := range []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "newlines", text: "\n\n\n"},
		{name: "whitespace", text: "  \n\t\n \r\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Empty(t, Segment(tc.text))
		})
	}
}

func TestSegmentHeadings(t *testing.T) {
	text := strings.Join([]string{
		"## Intro",
		"First line.",
		"",
		"Second line.",
		"## Next [2:15]",
		"Third line.",
	}, "\n")

	got := Segment(text)
	want := []Section{
		{
			Heading: "Intro",
			Paragraphs: []Paragraph{
				{Kind: KindPlain, Text: "First line.", Spans: []Span{{Text: "First line."}}, Raw: "First line."},
				{Kind: KindPlain, Text: "Second line.", Spans: []Span{{Text: "Second line."}}, Raw: "Second line."},
			},
		},
		{
			Heading:   "Next",
			Timestamp: "2:15",
			Paragraphs: []Paragraph{
				{Kind: KindPlain, Text: "Third line.", Spans: []Span{{Text: "Third line."}}, Raw: "Third line."},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want, +got):\n%s", diff)
	}
}

func TestSegmentHeadingForms(t *testing.T) {
	for _, tc := range []struct {
		name          string
		line          string
		expHeading    string
		expTimestamp  string
		expPermissive bool
	}{
		{name: "hash", line: "## Topic One", expHeading: "Topic One"},
		{name: "hash with leading timestamp", line: "## [5:30] Topic Two", expHeading: "Topic Two", expTimestamp: "5:30"},
		{name: "hash with trailing timestamp", line: "## Introduction [0:00]", expHeading: "Introduction", expTimestamp: "0:00"},
		{name: "deeper hash", line: "### Details", expHeading: "Details"},
		{name: "bare timestamp", line: "[12:05] Wrap up", expHeading: "Wrap up", expTimestamp: "12:05"},
		{name: "only timestamp", line: "## [1:00]", expTimestamp: "1:00"},
		{name: "hour timestamp", line: "## [1:02:03] Late", expHeading: "Late", expTimestamp: "1:02:03"},
		{name: "colon", line: "Main points:", expHeading: "Main points", expPermissive: true},
		{name: "upper case", line: "OVERVIEW", expHeading: "OVERVIEW", expPermissive: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			text := tc.line + "\nbody"
			sections := NewSegmenter(Options{Permissive: true}).Segment(text)
			require.Len(t, sections, 1)
			assert.Equal(t, tc.expHeading, sections[0].Heading)
			assert.Equal(t, tc.expTimestamp, sections[0].Timestamp)

			strict := Segment(text)
			require.Len(t, strict, 1)
			if tc.expPermissive {
				assert.Equal(t, defaultHeading, strict[0].Heading)
				assert.Len(t, strict[0].Paragraphs, 2)
			} else {
				assert.Equal(t, tc.expHeading, strict[0].Heading)
			}
		})
	}
}

func TestSegmentPermissiveLimits(t *testing.T) {
	long := strings.Repeat("word ", 20) + "end:"
	sections := NewSegmenter(Options{Permissive: true}).Segment(long + "\n2024 2025")
	require.Len(t, sections, 1)
	assert.Equal(t, defaultHeading, sections[0].Heading)
	assert.Len(t, sections[0].Paragraphs, 2)
}

func TestSegmentHeadingsNeverMerge(t *testing.T) {
	sections := Segment("## One\n## Two\n## Three\ntext")
	require.Len(t, sections, 3)
	assert.Empty(t, sections[0].Paragraphs)
	assert.Empty(t, sections[1].Paragraphs)
	assert.Len(t, sections[2].Paragraphs, 1)
}

func TestSegmentDefaultSection(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		sections := Segment("Just text.\nMore text.\n## Later\nx")
		require.Len(t, sections, 2)
		assert.Equal(t, "Summary", sections[0].Heading)
		assert.Len(t, sections[0].Paragraphs, 2)
	})
	t.Run("timestamped", func(t *testing.T) {
		sections := Segment("It starts at [0:30] with a demo.")
		require.Len(t, sections, 1)
		assert.Equal(t, "Content", sections[0].Heading)
		assert.Equal(t, "0:30", sections[0].Paragraphs[0].Timestamp)
	})
}

func TestSegmentQuestions(t *testing.T) {
	t.Run("question and answer", func(t *testing.T) {
		sections := Segment("Q: [1:00] Why?\nBecause.")
		require.Len(t, sections, 1)
		assert.Equal(t, "Questions Asked", sections[0].Heading)

		qas := sections[0].Questions()
		require.Len(t, qas, 1)
		assert.Equal(t, "Why?", qas[0].Question.Text)
		assert.Equal(t, "1:00", qas[0].Question.Timestamp)
		require.NotNil(t, qas[0].Answer)
		assert.Equal(t, "Because.", qas[0].Answer.Text)
		assert.Equal(t, KindAnswer, qas[0].Answer.Kind)
	})

	t.Run("inside questions section", func(t *testing.T) {
		text := "## Questions Asked\nQ: [2:00] One?\nYes.\nQuestion: Two?\nNo.\nA remark."
		sections := Segment(text)
		require.Len(t, sections, 1)
		assert.Equal(t, "Questions Asked", sections[0].Heading)

		qas := sections[0].Questions()
		require.Len(t, qas, 2)
		assert.Equal(t, "One?", qas[0].Question.Text)
		assert.Equal(t, "Yes.", qas[0].Answer.Text)
		assert.Equal(t, "Two?", qas[1].Question.Text)
		assert.Equal(t, "", qas[1].Question.Timestamp)
		assert.Equal(t, "No.", qas[1].Answer.Text)
		assert.Equal(t, KindPlain, sections[0].Paragraphs[4].Kind)
	})

	t.Run("breaks other section", func(t *testing.T) {
		sections := Segment("## Topic\nText.\nQ: Why?\nBecause.")
		require.Len(t, sections, 2)
		assert.Equal(t, "Topic", sections[0].Heading)
		assert.Equal(t, "Questions Asked", sections[1].Heading)
		assert.Len(t, sections[1].Paragraphs, 2)
	})

	t.Run("consecutive questions have no answer", func(t *testing.T) {
		sections := Segment("Q: One?\nQ: Two?")
		require.Len(t, sections, 1)
		qas := sections[0].Questions()
		require.Len(t, qas, 2)
		assert.Nil(t, qas[0].Answer)
		assert.Nil(t, qas[1].Answer)
	})
}

func TestSegmentInlineTimestamps(t *testing.T) {
	sections := Segment("## Demo\nAt [3:10] the build runs, then [4:00] it ships.")
	require.Len(t, sections, 1)
	p := sections[0].Paragraphs[0]
	assert.Equal(t, "At the build runs, then it ships.", p.Text)
	assert.Equal(t, "3:10", p.Timestamp)
	exp := []Span{
		{Text: "At "},
		{Timestamp: "3:10"},
		{Text: " the build runs, then "},
		{Timestamp: "4:00"},
		{Text: " it ships."},
	}
	assert.Equal(t, exp, p.Spans)
}

func TestSegmentBullets(t *testing.T) {
	sections := Segment("## Key Takeaways\n- First\n* Second\n2. Third")
	require.Len(t, sections, 1)
	for i, exp := range []string{"First", "Second", "Third"} {
		assert.Equal(t, KindBullet, sections[0].Paragraphs[i].Kind)
		assert.Equal(t, exp, sections[0].Paragraphs[i].Text)
	}
}

func TestSegmentIdempotent(t *testing.T) {
	text := strings.Join([]string{
		"Orphan intro line.",
		"## Introduction [0:00]",
		"Overview of the video.",
		"## [2:15] Topic One",
		"Details at [2:40] here.",
		"## Topic Two",
		"Q: [5:00] A question inside a topic?",
		"The answer.",
		"## Questions Asked",
		"Q: [9:10] Last one?",
		"Yes.",
		"## Key Takeaways",
		"- Point",
		"## [10:00]",
	}, "\n")

	for _, permissive := range []bool{false, true} {
		seg := NewSegmenter(Options{Permissive: permissive})
		first := seg.Segment(text)
		second := seg.Segment(Flatten(first))
		if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(Paragraph{}, "Raw")); diff != "" {
			t.Errorf("permissive %v (-first, +second):\n%s", permissive, diff)
		}
	}
}
