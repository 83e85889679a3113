package notescan

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// minTitleLength is the rune count a line must exceed to be a title.
const minTitleLength = 10

// Kind identifies the class of a dashboard text line.
type Kind int

// Line kinds.
const (
	KindOther Kind = iota
	KindTitle
	KindNumeric
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindNumeric:
		return "numeric"
	default:
		return "other"
	}
}

// LineKind is the classification of a single trimmed line.
// Value is only meaningful for KindNumeric.
type LineKind struct {
	Kind  Kind
	Text  string
	Value int
}

// Line is a trimmed line and its position in the recognized text.
type Line struct {
	Index int
	Text  string
}

// Metric names one of the counters of an Article.
type Metric int

// Metrics in the order their labels are matched.
const (
	MetricViews Metric = iota
	MetricComments
	MetricLikes
)

func (m Metric) String() string {
	switch m {
	case MetricViews:
		return "views"
	case MetricComments:
		return "comments"
	case MetricLikes:
		return "likes"
	default:
		return "unknown"
	}
}

// Labels holds the keywords that identify the metric a number belongs to.
// A label line matches a group when it contains any of its keywords.
type Labels struct {
	Views    []string
	Comments []string
	Likes    []string
}

// DefaultLabels are the labels shown on the note.com dashboard.
var DefaultLabels = Labels{
	Views:    []string{"ビュー", "全体ビュー"},
	Comments: []string{"コメント"},
	Likes:    []string{"スキ", "いいね"},
}

// Metric returns the metric named by a label line. Groups are checked in
// views, comments, likes order and matching is case-sensitive.
func (l Labels) Metric(line string) (Metric, bool) {
	switch {
	case containsAny(line, l.Views):
		return MetricViews, true
	case containsAny(line, l.Comments):
		return MetricComments, true
	case containsAny(line, l.Likes):
		return MetricLikes, true
	}
	return 0, false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Tokenize splits recognized text into trimmed lines. Blank lines are kept
// so that indexes match the original text.
func Tokenize(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]Line, len(raw))
	for i, s := range raw {
		lines[i] = Line{Index: i, Text: strings.TrimSpace(s)}
	}
	return lines
}

// Classify determines the kind of a trimmed line from its own content.
func Classify(line string) LineKind {
	if v, ok := parseDigits(line); ok {
		return LineKind{Kind: KindNumeric, Text: line, Value: v}
	}
	if utf8.RuneCountInString(line) > minTitleLength {
		return LineKind{Kind: KindTitle, Text: line}
	}
	return LineKind{Kind: KindOther, Text: line}
}

// parseDigits reports whether s is one or more Unicode decimal digits
// and returns their value, saturating at math.MaxInt.
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return 0, false
		}
		d := digitValue(r)
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
			continue
		}
		n = n*10 + d
	}
	return n, true
}

// digitValue returns the value of a decimal digit rune. Contiguous Nd
// ranges are made of whole runs of ten digits starting at zero.
func digitValue(r rune) int {
	if r >= '0' && r <= '9' {
		return int(r - '0')
	}
	for _, rg := range unicode.Nd.R16 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return int((r-lo)/rune(rg.Stride)) % 10
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return int((r-lo)/rune(rg.Stride)) % 10
		}
	}
	return 0
}

// Parser turns recognized dashboard text into articles.
// The zero value uses DefaultLabels.
type Parser struct {
	Labels *Labels
}

// Parse extracts articles from recognized text using DefaultLabels and
// stamps them with today's date.
func Parse(text string) []Article {
	var p Parser
	return p.ParseAt(text, time.Now())
}

// ParseAt extracts articles from recognized text and stamps every article
// with the date of now.
//
// A title line opens a new article, flushing the previous one. A number
// is assigned to the open article when the next line is a known label;
// otherwise it is dropped. ParseAt never fails.
func (p *Parser) ParseAt(text string, now time.Time) []Article {
	labels := DefaultLabels
	if p.Labels != nil {
		labels = *p.Labels
	}

	lines := Tokenize(text)

	var articles []Article
	var current *Article
	for i, line := range lines {
		kind := Classify(line.Text)
		switch kind.Kind {
		case KindTitle:
			if current != nil {
				articles = append(articles, *current)
			}
			current = &Article{Title: kind.Text}
		case KindNumeric:
			if current == nil || i+1 >= len(lines) {
				continue
			}
			metric, ok := labels.Metric(lines[i+1].Text)
			if !ok {
				continue
			}
			current.set(metric, kind.Value)
		}
	}
	if current != nil {
		articles = append(articles, *current)
	}

	date := now.Format(DateFormat)
	for i := range articles {
		articles[i].Date = date
	}
	return articles
}

func (a *Article) set(m Metric, v int) {
	switch m {
	case MetricViews:
		a.Views = v
	case MetricComments:
		a.Comments = v
	case MetricLikes:
		a.Likes = v
	}
}
