package main

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/talentbase/recruitcore/candidate"
	"github.com/talentbase/recruitcore/docpipe"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "run the extraction pipeline over a résumé file and print every adapter attempt",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().String("mime", "", "declared MIME type (default: guessed from extension)")
	extractCmd.Flags().Bool("attributes", true, "derive candidate attributes from the best result")
}

// extractReport is the full diagnostic output: the whole outcome plus the
// derived candidate record.
type extractReport struct {
	File       string                `json:"file" yaml:"file"`
	Outcome    *docpipe.Outcome      `json:"outcome" yaml:"outcome"`
	Attributes *candidate.Attributes `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	mimeType, _ := cmd.Flags().GetString("mime")
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(path))
	}

	pipe := docpipe.New(pipelineConfig())
	outcome, err := pipe.Extract(context.Background(), data, mimeType, filepath.Base(path))
	if err != nil {
		return err
	}

	report := extractReport{File: path, Outcome: outcome}

	if withAttrs, _ := cmd.Flags().GetBool("attributes"); withAttrs && outcome.Best != nil {
		ext := candidate.New(candidate.Config{MinTextYield: viper.GetInt("min-text-yield")})
		attrs := ext.Extract(outcome.Best.Text)
		report.Attributes = &attrs
	}

	return emit(cmd, report)
}

// emit renders any report in the selected output format.
func emit(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	switch viper.GetString("output") {
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(v)
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
