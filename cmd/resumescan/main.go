// resumescan is a diagnostic CLI for the extraction and scoring core: it runs
// the full adapter chain over a résumé file and prints every adapter's
// attempt, or scores a candidate record against a requisition.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talentbase/recruitcore/docpipe"
)

const app = "resumescan"

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "inspect résumé text extraction and candidate/job match scoring",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringP("output", "o", "json", "output format: json or yaml")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")

	rootCmd.PersistentFlags().Bool("enable-ocr", false, "enable the optical recognition adapter")
	rootCmd.PersistentFlags().Int("min-text-yield", 300, "text length below which attribute confidence is capped")
	rootCmd.PersistentFlags().Int("escalation-threshold", 400, "text length below which the pipeline escalates past a structured result")
	rootCmd.PersistentFlags().Int("extraction-timeout-ms", 0, "bound on total pipeline execution (0 = unbounded)")

	viper.SetEnvPrefix("RECRUITCORE")
	viper.AutomaticEnv()
	viper.BindEnv("enable-ocr", "RECRUITCORE_ENABLE_OCR")
	viper.BindEnv("min-text-yield", "RECRUITCORE_MIN_TEXT_YIELD")
	viper.BindEnv("escalation-threshold", "RECRUITCORE_ESCALATION_THRESHOLD")
	viper.BindEnv("extraction-timeout-ms", "RECRUITCORE_EXTRACTION_TIMEOUT_MS")

	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("enable-ocr", rootCmd.PersistentFlags().Lookup("enable-ocr"))
	viper.BindPFlag("min-text-yield", rootCmd.PersistentFlags().Lookup("min-text-yield"))
	viper.BindPFlag("escalation-threshold", rootCmd.PersistentFlags().Lookup("escalation-threshold"))
	viper.BindPFlag("extraction-timeout-ms", rootCmd.PersistentFlags().Lookup("extraction-timeout-ms"))
}

func initLogging() {
	level := slog.LevelInfo
	if viper.GetBool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// pipelineConfig builds the explicit pipeline configuration from flags and
// RECRUITCORE_* environment variables.
func pipelineConfig() docpipe.Config {
	return docpipe.Config{
		EnableOpticalRecognition: viper.GetBool("enable-ocr"),
		EscalationThreshold:      viper.GetInt("escalation-threshold"),
		ExtractionTimeout:        time.Duration(viper.GetInt("extraction-timeout-ms")) * time.Millisecond,
	}
}
