package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/notescan"
	"github.com/fwojciec/notescan/feeds"
)

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	image, err := os.ReadFile(c.Image)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	a, err := deps.Analyzer.Analyze(deps.Ctx, image)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", notescan.ErrorMessage(err))
		return err
	}

	if c.Save {
		if err := deps.Analyses.CreateAnalysis(deps.Ctx, a); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", notescan.ErrorMessage(err))
			return err
		}
	}

	if c.JSON {
		return feeds.WriteJSON(deps.Stdout, notescan.NewAnalyzeResponse(a))
	}

	if a.Mock {
		fmt.Fprintln(deps.Stdout, "Demo data (no text recognition was performed).")
	}
	if len(a.Articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found.")
	} else if err := renderArticles(deps.Stdout, a.Articles); err != nil {
		return err
	}
	if a.ID != "" {
		fmt.Fprintf(deps.Stdout, "Saved as %s\n", a.ID)
	}
	return nil
}
