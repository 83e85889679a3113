package notescan

import "math"

// DateFormat is the layout of Article.Date.
const DateFormat = "2006-01-02"

// Article holds the engagement metrics of one dashboard entry.
type Article struct {
	Title    string `json:"title"`
	Views    int    `json:"views"`
	Comments int    `json:"comments"`
	Likes    int    `json:"likes"`
	Date     string `json:"date"`
}

// Totals aggregates metrics across articles.
type Totals struct {
	Articles int `json:"articles"`
	Views    int `json:"views"`
	Comments int `json:"comments"`
	Likes    int `json:"likes"`
}

// Summarize sums the metrics of the given articles. Sums saturate at
// math.MaxInt like the parsed values themselves.
func Summarize(articles []Article) Totals {
	t := Totals{Articles: len(articles)}
	for _, a := range articles {
		t.Views = addSaturating(t.Views, a.Views)
		t.Comments = addSaturating(t.Comments, a.Comments)
		t.Likes = addSaturating(t.Likes, a.Likes)
	}
	return t
}

// addSaturating adds two non-negative counts, capping at math.MaxInt.
func addSaturating(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
