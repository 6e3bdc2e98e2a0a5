/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utilities.go
Description: Utility command implementations for shapely. Provides input
measurement for sizing long analyses and a listing of the supported input
formats with their detection rules.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kleascm/shapely/pkg/decode"
	"github.com/kleascm/shapely/pkg/values"
)

// RunMeasure decodes the given files and reports their node counts
func RunMeasure(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	formatFlag, _ := cmd.Flags().GetString("format")
	total := 0
	for _, path := range args {
		root, used, err := decode.File(path, decode.Format(formatFlag))
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}
		nodes := values.Count(root)
		total += nodes
		fmt.Printf("%s: %d nodes (%s)\n", path, nodes, used)
	}
	if len(args) > 1 {
		fmt.Printf("total: %d nodes\n", total)
	}
	return nil
}

// ListFormats prints the supported input formats
func ListFormats(cmd *cobra.Command, args []string) {
	fmt.Println("Supported input formats:")
	fmt.Println()

	formats := []struct {
		name      string
		detection string
	}{
		{"json", "extensions .json/.ndjson/.jsonl, or content starting with { or ["},
		{"yaml", "extensions .yaml/.yml, or the fallback when nothing else matches"},
		{"csv", "extension .csv, or a comma-separated first line"},
		{"html", "extensions .html/.htm, or content starting with <"},
		{"sqlite", "extensions .db/.sqlite/.sqlite3, or the SQLite file magic"},
	}
	for _, f := range formats {
		fmt.Printf("  %-8s %s\n", f.name, f.detection)
	}
	fmt.Println()
	fmt.Println("UTF-8, UTF-16LE, and UTF-16BE text sources are detected by BOM and")
	fmt.Println("transcoded automatically. Pass --format to skip detection.")
}
