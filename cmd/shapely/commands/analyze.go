/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: analyze.go
Description: Analyze command implementation for shapely. Decodes the requested
sources, runs the inference engine under the configured threshold policy, and
prints the resulting shape as the compact grammar or as a JSON report.
*/

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/shapely/pkg/analyzer"
	"github.com/kleascm/shapely/pkg/decode"
	"github.com/kleascm/shapely/pkg/logging"
	"github.com/kleascm/shapely/pkg/utils"
	"github.com/kleascm/shapely/pkg/values"
)

// jsonReport is the machine-readable analyze output.
type jsonReport struct {
	ID       string    `json:"id"`
	Sources  []string  `json:"sources"`
	Shape    string    `json:"shape"`
	Started  time.Time `json:"started"`
	Duration string    `json:"duration"`
}

// RunAnalyze executes the main analysis process
func RunAnalyze(cmd *cobra.Command, args []string) error {
	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	if err := SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	// Build and validate the threshold policy
	policy, err := BuildPolicy()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Create the structured logger
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevel(viper.GetString("log_level")),
		Format:    logging.LogFormat(viper.GetString("log_format")),
		OutputDir: viper.GetString("log_dir"),
		MaxFiles:  viper.GetInt("log_max_files"),
		MaxSize:   viper.GetInt64("log_max_size"),
		Timestamp: true,
		Colors:    true,
		Compress:  viper.GetBool("log_compress"),
	})
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	defer logger.Close()

	// Create the engine
	opts := []analyzer.Option{analyzer.WithLogger(logger)}
	if viper.GetBool("progress") {
		opts = append(opts, analyzer.WithProgress(&analyzer.BarProgress{Out: os.Stderr}))
	}
	engine, err := analyzer.New(policy, opts...)
	if err != nil {
		return err
	}

	// Set up signal handling for graceful cancellation
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived shutdown signal, stopping analysis...")
		cancel()
	}()

	// Decode every source
	format := decode.Format(viper.GetString("format"))
	roots := make([]values.Value, 0, len(args))
	for _, path := range args {
		root, used, err := decode.File(path, format)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}
		logger.LogSource(path, string(used), values.Count(root), nil)
		roots = append(roots, root)
	}

	// Run the analysis
	report, err := engine.Run(ctx, roots)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	logger.LogReport(report.ID, report.Sources, report.Duration(), nil)

	out := jsonReport{
		ID:       report.ID,
		Sources:  args,
		Shape:    report.Shape.String(),
		Started:  report.Started,
		Duration: report.Duration().String(),
	}

	// Save the report when asked
	if dir := viper.GetString("report_dir"); dir != "" {
		path, err := utils.WriteReport(dir, report.ID, out)
		if err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		logger.Info("Report saved", map[string]interface{}{"path": path})
	}

	// Print the result
	if viper.GetBool("json") {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(report.Shape.String())
	return nil
}
