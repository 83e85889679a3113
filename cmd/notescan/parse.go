package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/notescan"
	"github.com/fwojciec/notescan/feeds"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	var text []byte
	var err error
	if c.File == "" || c.File == "-" {
		text, err = io.ReadAll(deps.Stdin)
	} else {
		text, err = os.ReadFile(c.File)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	var p notescan.Parser
	articles := p.ParseAt(string(text), deps.Now())
	if articles == nil {
		articles = []notescan.Article{}
	}

	if c.JSON {
		return feeds.WriteJSON(deps.Stdout, articles)
	}
	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found.")
		return nil
	}
	return renderArticles(deps.Stdout, articles)
}
