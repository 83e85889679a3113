package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fwojciec/notescan"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// newTable creates a borderless, left-aligned table writing to w.
func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

func render(w io.Writer, header []string, rows [][]string) error {
	table := newTable(w)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// renderArticles prints articles followed by their totals.
func renderArticles(w io.Writer, articles []notescan.Article) error {
	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{
			a.Title,
			humanize.Comma(int64(a.Views)),
			strconv.Itoa(a.Comments),
			strconv.Itoa(a.Likes),
			a.Date,
		})
	}
	if err := render(w, []string{"Title", "Views", "Comments", "Likes", "Date"}, rows); err != nil {
		return err
	}

	t := notescan.Summarize(articles)
	_, err := fmt.Fprintf(w, "\n%d articles, %s views, %s comments, %s likes\n",
		t.Articles, humanize.Comma(int64(t.Views)), humanize.Comma(int64(t.Comments)), humanize.Comma(int64(t.Likes)))
	return err
}

// renderAnalyses prints one line per stored analysis.
func renderAnalyses(w io.Writer, analyses []*notescan.Analysis, now time.Time) error {
	rows := make([][]string, 0, len(analyses))
	for _, a := range analyses {
		t := a.Totals()
		rows = append(rows, []string{
			a.ID,
			a.Source,
			humanize.RelTime(a.CreatedAt, now, "ago", "from now"),
			strconv.Itoa(t.Articles),
			humanize.Comma(int64(t.Views)),
		})
	}
	return render(w, []string{"ID", "Source", "Created", "Articles", "Views"}, rows)
}

// renderFeedStatuses prints one line per probed feed.
func renderFeedStatuses(w io.Writer, statuses []notescan.FeedStatus) error {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		mark := "NG"
		if s.OK {
			mark = "OK"
		}
		rows = append(rows, []string{mark, s.Feed.Name, s.Feed.Category, s.Message})
	}
	return render(w, []string{"", "Name", "Category", "Result"}, rows)
}
