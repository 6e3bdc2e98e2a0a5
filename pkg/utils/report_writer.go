/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_writer.go
Description: Utility for saving analysis reports to a reports directory.
Handles timestamped, run-scoped file naming. Ensures the directory exists
and writes indented JSON files for easy diffing between runs.
*/

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteReport writes an analysis report to baseDir, named by timestamp and
// the short run id: 2024-06-11_01-30-00_b1946ac9.json
func WriteReport(baseDir string, runID string, report interface{}) (string, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.json", timestamp, short)
	filePath := filepath.Join(baseDir, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return filePath, nil
}
