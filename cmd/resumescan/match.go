package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talentbase/recruitcore/match"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "score a candidate JSON record against a requisition JSON record",
	RunE:  runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().String("candidate", "", "path to candidate JSON (skills + salary)")
	matchCmd.Flags().String("job", "", "path to requisition JSON (required skills + salary)")
	matchCmd.MarkFlagRequired("candidate")
	matchCmd.MarkFlagRequired("job")
}

// matchReport is the scoring output handed to UI collaborators: the weighted
// score plus the "why this match" reason strings.
type matchReport struct {
	Score   match.Score `json:"score" yaml:"score"`
	Reasons []string    `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	var cand match.Candidate
	if err := readJSON(cmd, "candidate", &cand); err != nil {
		return err
	}
	var job match.Requisition
	if err := readJSON(cmd, "job", &job); err != nil {
		return err
	}

	report := matchReport{
		Score:   match.Compute(&cand, &job),
		Reasons: match.Reasons(&cand, &job),
	}
	return emit(cmd, report)
}

func readJSON(cmd *cobra.Command, flag string, v any) error {
	path, _ := cmd.Flags().GetString(flag)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
