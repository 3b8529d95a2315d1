package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	limit     int
	threshold float64
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run a relevance search against the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newContainer()
		if err != nil {
			return err
		}
		defer c.Close()

		t := threshold
		if t <= 0 {
			t = c.Searcher.DefaultThreshold()
		}

		query := strings.Join(args, " ")
		results := c.Searcher.Search(cmd.Context(), query, limit, t)
		if len(results) == 0 {
			color.Yellow("no results (%s search, threshold %.2f)", c.Searcher.Name(), t)
			return nil
		}

		for i, r := range results {
			color.Cyan("[%d] %s/%s  %.3f", i+1, r.Chunk.Source, r.Chunk.SourceId, r.Similarity)
			fmt.Println(preview(r.Chunk.Text, 200))
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum results")
	queryCmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "minimum similarity (0 uses the strategy default)")
}

func preview(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}
