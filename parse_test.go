package notescan_test

import (
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/notescan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 8, 20, 15, 4, 5, 0, time.Local)

func parseLines(lines ...string) []notescan.Article {
	var p notescan.Parser
	return p.ParseAt(strings.Join(lines, "\n"), testNow)
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields no lines", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, notescan.Tokenize(""))
	})

	t.Run("single line without newline", func(t *testing.T) {
		t.Parallel()

		lines := notescan.Tokenize("  hello ")

		require.Len(t, lines, 1)
		assert.Equal(t, notescan.Line{Index: 0, Text: "hello"}, lines[0])
	})

	t.Run("trims lines and keeps blanks in order", func(t *testing.T) {
		t.Parallel()

		lines := notescan.Tokenize("a\r\n\n  b\t\n")

		require.Len(t, lines, 4)
		assert.Equal(t, "a", lines[0].Text)
		assert.Equal(t, "", lines[1].Text)
		assert.Equal(t, "b", lines[2].Text)
		assert.Equal(t, "", lines[3].Text)
		assert.Equal(t, 2, lines[2].Index)
	})
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		line  string
		kind  notescan.Kind
		value int
	}{
		{name: "ascii digits", line: "123", kind: notescan.KindNumeric, value: 123},
		{name: "single zero", line: "0", kind: notescan.KindNumeric, value: 0},
		{name: "full-width digits", line: "４２", kind: notescan.KindNumeric, value: 42},
		{name: "arabic-indic digits", line: "١٢٣٤٥٦٧٨٩٠١", kind: notescan.KindNumeric, value: 12345678901},
		{name: "devanagari digits", line: "४२", kind: notescan.KindNumeric, value: 42},
		{name: "mathematical double-struck digits", line: "𝟙𝟚", kind: notescan.KindNumeric, value: 12},
		{name: "long digit run is numeric not title", line: "123456789012", kind: notescan.KindNumeric, value: 123456789012},
		{name: "japanese title", line: "記事タイトルが十文字を超えている行", kind: notescan.KindTitle},
		{name: "eleven ascii runes", line: "abcdefghijk", kind: notescan.KindTitle},
		{name: "ten ascii runes", line: "abcdefghij", kind: notescan.KindOther},
		{name: "bare label", line: "ビュー", kind: notescan.KindOther},
		{name: "english label", line: "comments", kind: notescan.KindOther},
		{name: "empty line", line: "", kind: notescan.KindOther},
		{name: "punctuation", line: "・・・", kind: notescan.KindOther},
		{name: "digits with sign", line: "-5", kind: notescan.KindOther},
		{name: "digits with comma", line: "1,234", kind: notescan.KindOther},
		{name: "long digits with text", line: "12345678901a", kind: notescan.KindTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := notescan.Classify(tt.line)

			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.line, got.Text)
			if tt.kind == notescan.KindNumeric {
				assert.Equal(t, tt.value, got.Value)
			}
		})
	}

	t.Run("counts runes not bytes", func(t *testing.T) {
		t.Parallel()

		line := "十文字ちょうどの行です"
		require.Equal(t, 11, utf8.RuneCountInString(line))
		assert.Equal(t, notescan.KindTitle, notescan.Classify(line).Kind)
		assert.Equal(t, notescan.KindOther, notescan.Classify("十文字の短い行です").Kind)
	})

	t.Run("saturates values that overflow int", func(t *testing.T) {
		t.Parallel()

		got := notescan.Classify(strings.Repeat("9", 40))

		assert.Equal(t, notescan.KindNumeric, got.Kind)
		assert.Equal(t, math.MaxInt, got.Value)
	})
}

func TestLabels_Metric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line   string
		metric notescan.Metric
		ok     bool
	}{
		{line: "ビュー", metric: notescan.MetricViews, ok: true},
		{line: "全体ビュー", metric: notescan.MetricViews, ok: true},
		{line: "コメント", metric: notescan.MetricComments, ok: true},
		{line: "スキ", metric: notescan.MetricLikes, ok: true},
		{line: "いいね", metric: notescan.MetricLikes, ok: true},
		{line: "ビュー・コメント", metric: notescan.MetricViews, ok: true},
		{line: "views", ok: false},
		{line: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			metric, ok := notescan.DefaultLabels.Metric(tt.line)

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.metric, metric)
			}
		})
	}
}

func TestParser_ParseAt(t *testing.T) {
	t.Parallel()

	t.Run("scenario with all three metrics", func(t *testing.T) {
		t.Parallel()

		articles := parseLines("記事タイトルが十文字を超えている行", "10", "ビュー", "2", "コメント", "1", "スキ")

		require.Len(t, articles, 1)
		assert.Equal(t, notescan.Article{
			Title:    "記事タイトルが十文字を超えている行",
			Views:    10,
			Comments: 2,
			Likes:    1,
			Date:     "2025-08-20",
		}, articles[0])
	})

	t.Run("non-latin digit lines are metrics not titles", func(t *testing.T) {
		t.Parallel()

		articles := parseLines("記事タイトルが十文字を超えている行", "١٢٣٤٥٦٧٨٩٠١", "ビュー")

		require.Len(t, articles, 1)
		assert.Equal(t, 12345678901, articles[0].Views)
	})

	t.Run("empty input yields no articles", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, parseLines(""))
	})

	t.Run("consecutive titles flush in order with zero metrics", func(t *testing.T) {
		t.Parallel()

		articles := parseLines("タイトルその一は十分に長い文章です", "タイトルその二も十分に長い文章です")

		require.Len(t, articles, 2)
		assert.Equal(t, "タイトルその一は十分に長い文章です", articles[0].Title)
		assert.Equal(t, "タイトルその二も十分に長い文章です", articles[1].Title)
		for _, a := range articles {
			assert.Zero(t, a.Views)
			assert.Zero(t, a.Comments)
			assert.Zero(t, a.Likes)
		}
	})

	t.Run("number before any title is dropped", func(t *testing.T) {
		t.Parallel()

		articles := parseLines("5", "ビュー", "短い行の後にタイトルらしき長い文章が続く場合")

		require.Len(t, articles, 1)
		assert.Equal(t, "短い行の後にタイトルらしき長い文章が続く場合", articles[0].Title)
		assert.Zero(t, articles[0].Views)
	})

	t.Run("number followed by unknown line is dropped", func(t *testing.T) {
		t.Parallel()

		articles := parseLines("記事タイトルが十文字を超えている行", "10", "", "ビュー")

		require.Len(t, articles, 1)
		assert.Zero(t, articles[0].Views)
	})

	t.Run("number on last line is dropped", func(t *testing.T) {
		t.Parallel()

		articles := parseLines("記事タイトルが十文字を超えている行", "10")

		require.Len(t, articles, 1)
		assert.Zero(t, articles[0].Views)
	})

	t.Run("later metric overwrites earlier one", func(t *testing.T) {
		t.Parallel()

		articles := parseLines("記事タイトルが十文字を超えている行", "10", "ビュー", "25", "全体ビュー")

		require.Len(t, articles, 1)
		assert.Equal(t, 25, articles[0].Views)
	})

	t.Run("metrics attach to the most recent title", func(t *testing.T) {
		t.Parallel()

		articles := parseLines(
			"最初の記事のタイトルはこちらです",
			"3", "ビュー",
			"二番目の記事のタイトルはこちらです",
			"7", "スキ",
		)

		require.Len(t, articles, 2)
		assert.Equal(t, 3, articles[0].Views)
		assert.Zero(t, articles[0].Likes)
		assert.Equal(t, 7, articles[1].Likes)
		assert.Zero(t, articles[1].Views)
	})

	t.Run("handles carriage returns and surrounding spaces", func(t *testing.T) {
		t.Parallel()

		var p notescan.Parser
		articles := p.ParseAt("  記事タイトルが十文字を超えている行 \r\n 12 \r\n コメント \r\n", testNow)

		require.Len(t, articles, 1)
		assert.Equal(t, "記事タイトルが十文字を超えている行", articles[0].Title)
		assert.Equal(t, 12, articles[0].Comments)
	})

	t.Run("all articles share the call date", func(t *testing.T) {
		t.Parallel()

		articles := parseLines("タイトルその一は十分に長い文章です", "タイトルその二も十分に長い文章です")

		for _, a := range articles {
			assert.Equal(t, "2025-08-20", a.Date)
		}
	})

	t.Run("custom labels", func(t *testing.T) {
		t.Parallel()

		p := notescan.Parser{Labels: &notescan.Labels{
			Views:    []string{"views"},
			Comments: []string{"comments"},
			Likes:    []string{"likes"},
		}}
		articles := p.ParseAt("An article title that is long\n40\ntotal views\n4\nlikes", testNow)

		require.Len(t, articles, 1)
		assert.Equal(t, 40, articles[0].Views)
		assert.Equal(t, 4, articles[0].Likes)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		text := "記事タイトルが十文字を超えている行\n10\nビュー\n2\nコメント"
		var p notescan.Parser

		assert.Equal(t, p.ParseAt(text, testNow), p.ParseAt(text, testNow))
	})
}

func TestParser_ParseAt_Properties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"\n\n\n",
		"1\n2\n3",
		"ビュー\nコメント\nスキ",
		"記事タイトルが十文字を超えている行\n\x00\xff\xfe\n99999999999999999999999\nビュー",
		strings.Repeat("長いタイトルの行がここにあります\n1\nスキ\n", 50),
		"１２\nビュー\n全角数字の前に来るタイトル行です",
	}

	for _, in := range inputs {
		var p notescan.Parser
		articles := p.ParseAt(in, testNow)

		lines := map[string]bool{}
		for _, l := range notescan.Tokenize(in) {
			lines[l.Text] = true
		}
		for _, a := range articles {
			assert.True(t, lines[a.Title], "title %q must be a line of the input", a.Title)
			assert.Equal(t, notescan.KindTitle, notescan.Classify(a.Title).Kind)
			assert.GreaterOrEqual(t, a.Views, 0)
			assert.GreaterOrEqual(t, a.Comments, 0)
			assert.GreaterOrEqual(t, a.Likes, 0)
		}
	}
}

func TestParse_StampsToday(t *testing.T) {
	t.Parallel()

	articles := notescan.Parse("記事タイトルが十文字を超えている行")

	require.Len(t, articles, 1)
	_, err := time.Parse(notescan.DateFormat, articles[0].Date)
	require.NoError(t, err)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	totals := notescan.Summarize([]notescan.Article{
		{Title: "a", Views: 10, Comments: 1, Likes: 2},
		{Title: "b", Views: 5, Comments: 0, Likes: 3},
	})

	assert.Equal(t, notescan.Totals{Articles: 2, Views: 15, Comments: 1, Likes: 5}, totals)
	assert.Equal(t, notescan.Totals{}, notescan.Summarize(nil))

	t.Run("saturates instead of overflowing", func(t *testing.T) {
		t.Parallel()

		huge := strings.Repeat("9", 30)
		articles := parseLines(
			"一つ目の記事タイトルは十分に長い", huge, "ビュー",
			"二つ目の記事タイトルも十分に長い", huge, "ビュー", "7", "スキ",
		)
		require.Len(t, articles, 2)

		totals := notescan.Summarize(articles)

		assert.Equal(t, math.MaxInt, totals.Views)
		assert.Equal(t, 7, totals.Likes)
	})
}
