package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaspervw/fastrec/internal/kb"
	"github.com/jaspervw/fastrec/internal/session"
)

func askCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask",
		Short: "Run an interactive advisory session",
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

			s := session.New(cat)
			if err := runInteractive(s, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return err
			}

			recs, err := s.Recommend()
			if err != nil {
				return err
			}
			printRecommendations(cmd.OutOrStdout(), recs)
			return nil
		},
	}
}

// runInteractive drives the question loop until no further question
// would narrow the candidates. Empty input or "skip" skips a question;
// a rejected answer re-asks the same question.
func runInteractive(s *session.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		q, err := s.SelectNextQuestion()
		if err != nil {
			return err
		}
		if q == nil {
			return nil
		}

		printQuestion(out, q)
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" || strings.EqualFold(input, "skip") {
				if err := s.Skip(q.ID); err != nil {
					return err
				}
				break
			}
			if err := s.Answer(q.ID, resolveChoice(q, input)); err != nil {
				fmt.Fprintf(out, "  %v\n", err)
				continue
			}
			break
		}
	}
}

func printQuestion(out io.Writer, q *kb.Question) {
	fmt.Fprintf(out, "\n%s\n", q.Text)
	switch q.Type {
	case kb.TypeBoolean:
		fmt.Fprintln(out, "  (yes/no, or 'skip')")
	case kb.TypeChoice:
		for i, c := range q.Choices {
			fmt.Fprintf(out, "  %d) %s\n", i+1, c)
		}
		fmt.Fprintln(out, "  (number or value, or 'skip')")
	}
}

// resolveChoice maps a numeric selection onto the question's choices.
// Anything else passes through for the session to validate.
func resolveChoice(q *kb.Question, input string) any {
	if q.Type != kb.TypeChoice {
		return input
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(q.Choices) {
		return input
	}
	return q.Choices[n-1]
}

func printRecommendations(out io.Writer, recs []session.Recommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(out, "\nNo fastening method in the catalog satisfies all requirements.")
		return
	}

	fmt.Fprintf(out, "\nRecommended fastening methods (%d):\n", len(recs))
	for _, r := range recs {
		fmt.Fprintf(out, "\n  %s  [%s, %s]\n",
			r.Fastener.Name, r.Fastener.Category, r.Fastener.Permanence)
		for _, sug := range r.Suggestions {
			fmt.Fprintf(out, "    - %s\n", sug)
		}
	}
}
