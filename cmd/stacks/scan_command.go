package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"stacks/internal/catalog"
	"stacks/internal/shelf"
)

type scanSummary struct {
	Root           string         `json:"root"`
	Layout         shelf.Layout   `json:"layout"`
	Folders        int            `json:"folders"`
	YearDirs       []string       `json:"year_dirs,omitempty"`
	ByYearDir      map[string]int `json:"by_year_dir,omitempty"`
	CatalogEntries int            `json:"catalog_entries"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Summarize the thumbnail tree and catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tree, err := shelf.Scan(cfg.Paths.ThumbsDir)
			if err != nil {
				return err
			}
			entries, err := catalog.Load(cfg.Paths.CatalogPath)
			if err != nil {
				return err
			}

			counts := tree.CountByYearDir()
			if ctx.jsonOutput() {
				return writeJSON(cmd, scanSummary{
					Root:           tree.Root,
					Layout:         tree.Layout,
					Folders:        len(tree.Records),
					YearDirs:       tree.YearDirs,
					ByYearDir:      counts,
					CatalogEntries: len(entries),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Thumbnail root:  %s\n", tree.Root)
			fmt.Fprintf(out, "Layout:          %s\n", tree.Layout)
			fmt.Fprintf(out, "Folders:         %d\n", len(tree.Records))
			fmt.Fprintf(out, "Catalog entries: %d\n", len(entries))

			rows := make([][]string, 0, len(tree.YearDirs)+1)
			if n := counts[""]; n > 0 {
				rows = append(rows, []string{"(root)", strconv.Itoa(n)})
			}
			for _, year := range tree.YearDirs {
				rows = append(rows, []string{year, strconv.Itoa(counts[year])})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Location", "Folders"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
			}
			return nil
		},
	}
}
