package main

import (
	"fmt"

	"github.com/fwojciec/notescan"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.ID != "" {
		a, err := deps.Analyses.FindAnalysisByID(deps.Ctx, c.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", notescan.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n\n", a.ID, a.Source, a.CreatedAt.Local().Format("2006-01-02 15:04"))
		if len(a.Articles) == 0 {
			fmt.Fprintln(deps.Stdout, "No articles found.")
			return nil
		}
		return renderArticles(deps.Stdout, a.Articles)
	}

	analyses, err := deps.Analyses.FindAnalyses(deps.Ctx, notescan.AnalysisFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", notescan.ErrorMessage(err))
		return err
	}

	if len(analyses) == 0 {
		fmt.Fprintln(deps.Stdout, "No analyses found. Use 'notescan analyze --save' to store one.")
		return nil
	}
	return renderAnalyses(deps.Stdout, analyses, deps.Now())
}
