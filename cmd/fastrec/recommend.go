package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaspervw/fastrec/internal/session"
)

func recommendCmd(flags *rootFlags) *cobra.Command {
	var (
		answersPath string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend fastening methods from a file of answers",
		Long: `Recommend reads answers from a JSON file mapping question ids to
answer values and prints the fastening methods that satisfy the derived
requirements. Questions absent from the file are treated as skipped.

Example answers file:

  {
    "material_type": "metal",
    "material_type_2": "metal",
    "load_type": "heavy_dynamic",
    "vibration": true,
    "permanence": "permanent"
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(flags.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cat, err := buildCatalog(flags, log)
			if err != nil {
				return err
			}

			blob, err := os.ReadFile(answersPath)
			if err != nil {
				return fmt.Errorf("reading answers file: %w", err)
			}
			var answers map[string]any
			if err := json.Unmarshal(blob, &answers); err != nil {
				return fmt.Errorf("parsing answers file: %w", err)
			}

			s := session.New(cat)
			// Catalog order keeps material enrichment ahead of anything
			// that could depend on it and makes runs reproducible.
			for _, q := range cat.KB.Questions {
				raw, ok := answers[q.ID]
				if !ok {
					continue
				}
				if err := s.Answer(q.ID, raw); err != nil {
					return err
				}
				delete(answers, q.ID)
			}
			for id := range answers {
				return fmt.Errorf("unknown question id %q in answers file", id)
			}

			recs, err := s.Recommend()
			if err != nil {
				return err
			}

			if asJSON {
				return writeRecommendationsJSON(cmd.OutOrStdout(), recs)
			}
			printRecommendations(cmd.OutOrStdout(), recs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&answersPath, "answers", "a", "",
		"JSON file mapping question ids to answers")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	_ = cmd.MarkFlagRequired("answers")

	return cmd
}

func writeRecommendationsJSON(out io.Writer, recs []session.Recommendation) error {
	type rec struct {
		Name        string   `json:"name"`
		Category    string   `json:"category"`
		Permanence  string   `json:"permanence"`
		Suggestions []string `json:"suggestions,omitempty"`
	}
	payload := make([]rec, 0, len(recs))
	for _, r := range recs {
		payload = append(payload, rec{
			Name:        r.Fastener.Name,
			Category:    string(r.Fastener.Category),
			Permanence:  string(r.Fastener.Permanence),
			Suggestions: r.Suggestions,
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
