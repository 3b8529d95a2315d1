package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ai-tutor-be/pkg/rag/ingest"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	source     string
	extensions []string
)

var filesCmd = &cobra.Command{
	Use:   "files [paths...]",
	Short: "Ingest files or directories; each file becomes one record keyed by its path",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := collectRecords(args, source, extensions)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			color.Yellow("no matching files")
			return nil
		}

		c, err := newContainer()
		if err != nil {
			return err
		}
		defer c.Close()

		res, err := c.Ingestor.Ingest(cmd.Context(), records)
		if err != nil {
			return err
		}

		color.Green("ingested %d records into %d chunks (%d stale chunks pruned)", res.Records, res.Chunks, res.Pruned)
		return nil
	},
}

func init() {
	filesCmd.Flags().StringVarP(&source, "source", "s", "docs", "source name for the records")
	filesCmd.Flags().StringSliceVarP(&extensions, "ext", "e", []string{".md", ".txt", ".html"}, "file extensions to include when walking directories")
}

// collectRecords reads every matching file under paths. Source ids are slash-separated paths
// relative to the argument they were found under.
func collectRecords(paths []string, source string, exts []string) ([]ingest.Record, error) {
	var records []ingest.Record
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			rec, err := readRecord(source, root, filepath.Base(root))
			if err != nil {
				return nil, err
			}
			if rec != nil {
				records = append(records, *rec)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !hasExt(path, exts) {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rec, err := readRecord(source, path, filepath.ToSlash(rel))
			if err != nil {
				return err
			}
			if rec != nil {
				records = append(records, *rec)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func readRecord(source, path, sourceId string) (*ingest.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	return &ingest.Record{Source: source, SourceId: sourceId, Text: text}, nil
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
