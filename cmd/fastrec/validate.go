package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspervw/fastrec/internal/domain"
	"github.com/jaspervw/fastrec/internal/kb"
)

func validateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <kb.yaml>",
		Short: "Validate a knowledge base file",
		Long: `Validate loads a knowledge base file and checks it the same way the
advisor does at startup: every question, rule and fastener must parse,
and every attribute path a question or rule references must exist in
the task schema.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := domain.NewSchema()
			knowledge, err := kb.Load(args[0], schema)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"%s is valid: %d materials, %d questions, %d rules, %d fasteners, %d suggestion rules\n",
				args[0],
				len(knowledge.Materials),
				len(knowledge.Questions),
				len(knowledge.Rules),
				len(knowledge.Fasteners),
				len(knowledge.SuggestionRules),
			)
			return nil
		},
	}
}
