/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the shapely commands. Provides common
configuration loading, logging setup, and threshold policy construction used
across all command implementations.
*/

package commands

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/kleascm/shapely/pkg/config"
)

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("SHAPELY")
	viper.AutomaticEnv()

	return nil
}

// SetupLogging configures the logging system
func SetupLogging() error {
	logLevel := viper.GetString("log_level")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return nil
}

// BuildPolicy constructs the threshold policy from the bound flags.
// Timestamp bounds accept absolute dates and relative spans like "20y".
func BuildPolicy() (*config.Thresholds, error) {
	policy := config.Default()

	policy.FieldThreshold = viper.GetInt("field_threshold")
	policy.BadThreshold = viper.GetFloat64("bad_threshold")
	policy.EmptyThreshold = viper.GetFloat64("empty_threshold")
	policy.NullThreshold = viper.GetFloat64("null_threshold")
	policy.MergeThreshold = viper.GetFloat64("merge_threshold")
	policy.MaxNumericLen = viper.GetInt("max_numeric_len")
	policy.StripWhitespace = viper.GetBool("strip_whitespace")
	policy.UniqueCap = viper.GetInt("unique_cap")
	policy.SampleSize = viper.GetInt("sample_size")

	now := time.Now()
	if s := viper.GetString("min_timestamp"); s != "" {
		t, err := config.ParseTimestamp(s, now, true)
		if err != nil {
			return nil, fmt.Errorf("min-timestamp: %w", err)
		}
		policy.MinTimestamp = t
	}
	if s := viper.GetString("max_timestamp"); s != "" {
		t, err := config.ParseTimestamp(s, now, false)
		if err != nil {
			return nil, fmt.Errorf("max-timestamp: %w", err)
		}
		policy.MaxTimestamp = t
	}
	if s := viper.GetString("epoch"); s != "" && s != "unix" {
		t, err := config.ParseTimestamp(s, now, true)
		if err != nil {
			return nil, fmt.Errorf("epoch: %w", err)
		}
		policy.Epoch = t
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}
