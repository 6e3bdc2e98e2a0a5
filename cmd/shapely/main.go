/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for the shapely analyzer. Provides
comprehensive command-line options, configuration management, and a clean user
interface for inferring the shape of semi-structured data files.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/shapely/cmd/shapely/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool

	// Logging configuration
	logDir      string
	logFormat   string
	logMaxFiles int
	logMaxSize  int64
	logCompress bool

	// Input configuration
	inputFormat string

	// Threshold configuration
	fieldThreshold int
	badThreshold   float64
	emptyThreshold float64
	nullThreshold  float64
	mergeThreshold float64
	minTimestamp   string
	maxTimestamp   string
	epoch          string
	maxNumericLen  int
	stripSpace     bool
	uniqueCap      int
	sampleSize     int

	// Output configuration
	showProgress bool
	outputJSON   bool
	reportDir    string
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "shapely",
		Short: "Shapely - Structural shape inference for semi-structured data",
		Long: `Shapely analyzes JSON, YAML, CSV, HTML, and SQLite sources and reports the
overall structure of the data within: records and tables, typed columns with value
ranges, string patterns, recognized timestamps, and optional fields. Built for large
inputs, it tolerates a configurable proportion of bad values and summarizes rather
than enumerates.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")

	// Add logging-specific flags
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().IntVar(&logMaxFiles, "log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Int64Var(&logMaxSize, "log-max-size", 100*1024*1024, "Maximum log file size in bytes")
	rootCmd.PersistentFlags().BoolVar(&logCompress, "log-compress", false, "Compress rotated log files")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_max_size", rootCmd.PersistentFlags().Lookup("log-max-size"))
	viper.BindPFlag("log_compress", rootCmd.PersistentFlags().Lookup("log-compress"))

	// Add analyze command
	analyzeCmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Infer the structural shape of one or more data files",
		Long: `Analyze one or more data files and print the inferred shape. Several files
are folded into a single shape when their structures agree; incompatible sources
degrade to the opaque value type instead of failing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: commands.RunAnalyze,
	}

	// Add analyze command flags
	analyzeCmd.Flags().StringVar(&inputFormat, "format", "auto", "Input format (auto, json, yaml, csv, html, sqlite)")

	analyzeCmd.Flags().IntVar(&fieldThreshold, "field-threshold", 20, "Maximum distinct keys for a mapping to stay a record")
	analyzeCmd.Flags().Float64Var(&badThreshold, "bad-threshold", 0.01, "Tolerated proportion of unconvertible values per column")
	analyzeCmd.Flags().Float64Var(&emptyThreshold, "empty-threshold", 0.99, "Proportion of blanks past which a column is just str")
	analyzeCmd.Flags().Float64Var(&nullThreshold, "null-threshold", 0.99, "Proportion of nulls past which a column is just value")
	analyzeCmd.Flags().Float64Var(&mergeThreshold, "merge-threshold", 0.50, "Proportion of shared fields required to merge records")
	analyzeCmd.Flags().StringVar(&minTimestamp, "min-timestamp", "20y", "Oldest credible timestamp (absolute or relative, e.g. 20y)")
	analyzeCmd.Flags().StringVar(&maxTimestamp, "max-timestamp", "10y", "Newest credible timestamp (absolute or relative, e.g. 10y)")
	analyzeCmd.Flags().StringVar(&epoch, "epoch", "unix", "Epoch for numeric timestamps (unix or an absolute date)")
	analyzeCmd.Flags().IntVar(&maxNumericLen, "max-numeric-len", 30, "Longest string still tried as a number")
	analyzeCmd.Flags().BoolVar(&stripSpace, "strip-whitespace", true, "Trim whitespace before string classification")
	analyzeCmd.Flags().IntVar(&uniqueCap, "unique-cap", 1000000, "Distinct values tracked per column before degrading")
	analyzeCmd.Flags().IntVar(&sampleSize, "sample-size", 10, "Most/least frequent values kept per column")

	analyzeCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar on stderr")
	analyzeCmd.Flags().BoolVar(&outputJSON, "json", false, "Emit the report as JSON instead of the shape grammar")
	analyzeCmd.Flags().StringVar(&reportDir, "report-dir", "", "Save a JSON report of each run under this directory")

	// Bind flags to viper
	viper.BindPFlag("format", analyzeCmd.Flags().Lookup("format"))
	viper.BindPFlag("field_threshold", analyzeCmd.Flags().Lookup("field-threshold"))
	viper.BindPFlag("bad_threshold", analyzeCmd.Flags().Lookup("bad-threshold"))
	viper.BindPFlag("empty_threshold", analyzeCmd.Flags().Lookup("empty-threshold"))
	viper.BindPFlag("null_threshold", analyzeCmd.Flags().Lookup("null-threshold"))
	viper.BindPFlag("merge_threshold", analyzeCmd.Flags().Lookup("merge-threshold"))
	viper.BindPFlag("min_timestamp", analyzeCmd.Flags().Lookup("min-timestamp"))
	viper.BindPFlag("max_timestamp", analyzeCmd.Flags().Lookup("max-timestamp"))
	viper.BindPFlag("epoch", analyzeCmd.Flags().Lookup("epoch"))
	viper.BindPFlag("max_numeric_len", analyzeCmd.Flags().Lookup("max-numeric-len"))
	viper.BindPFlag("strip_whitespace", analyzeCmd.Flags().Lookup("strip-whitespace"))
	viper.BindPFlag("unique_cap", analyzeCmd.Flags().Lookup("unique-cap"))
	viper.BindPFlag("sample_size", analyzeCmd.Flags().Lookup("sample-size"))
	viper.BindPFlag("progress", analyzeCmd.Flags().Lookup("progress"))
	viper.BindPFlag("json", analyzeCmd.Flags().Lookup("json"))
	viper.BindPFlag("report_dir", analyzeCmd.Flags().Lookup("report-dir"))

	rootCmd.AddCommand(analyzeCmd)

	// Add measure command for input sizing
	measureCmd := &cobra.Command{
		Use:   "measure [files...]",
		Short: "Count the value nodes in data files without analyzing them",
		Long: `Decode the given files and report the number of value nodes each contains.
Useful for estimating how long a full analysis will take.`,
		Args: cobra.MinimumNArgs(1),
		RunE: commands.RunMeasure,
	}
	measureCmd.Flags().String("format", "auto", "Input format (auto, json, yaml, csv, html, sqlite)")
	rootCmd.AddCommand(measureCmd)

	// Add list-formats command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list-formats",
		Short: "List supported input formats and how they are detected",
		Run:   commands.ListFormats,
	})

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
