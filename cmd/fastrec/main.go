// Fastrec: fastening method advisor.
//
// Fastrec recommends how to join two materials by asking a short,
// adaptive series of questions and filtering its fastener catalog
// against the requirements a rule engine derives from the answers.
//
// Usage:
//
//	fastrec ask                  # Interactive advisory session
//	fastrec recommend -a f.json  # Non-interactive, answers from a file
//	fastrec validate kb.yaml     # Check a knowledge base file
//	fastrec serve                # Start the MCP server (stdio transport)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jaspervw/fastrec/internal/domain"
	"github.com/jaspervw/fastrec/internal/kb"
	"github.com/jaspervw/fastrec/internal/server"
	"github.com/jaspervw/fastrec/internal/session"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	kbPath  string
	dataDir string
	verbose bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "fastrec",
		Short: "Fastening method advisor",
		Long: `Fastrec recommends how to join two materials.

It asks questions about the materials, the load and the environment,
derives joint requirements with a forward-chaining rule engine, and
filters a fastener catalog against them. Beyond the two material
questions, every question is chosen adaptively for how many remaining
candidates it is expected to eliminate.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.kbPath, "kb", "",
		"Knowledge base YAML file (default: embedded catalog)")
	cmd.PersistentFlags().StringVar(&flags.dataDir, "data-dir", defaultDataDir(),
		"Directory for the session database (empty disables persistence)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false,
		"Enable debug logging")

	cmd.AddCommand(askCmd(flags))
	cmd.AddCommand(recommendCmd(flags))
	cmd.AddCommand(validateCmd(flags))
	cmd.AddCommand(serveCmd(flags))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fastrec v%s\n", server.Version)
		},
	})

	return cmd
}

// newLogger builds the process logger. Logs go to stderr so they never
// interfere with the MCP stdio transport or with piped output.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// buildCatalog loads the knowledge base and compiles the rule catalog
// for the local (non-server) subcommands.
func buildCatalog(flags *rootFlags, log *zap.Logger) (*session.Catalog, error) {
	schema := domain.NewSchema()

	var (
		knowledge *kb.KnowledgeBase
		err       error
	)
	if flags.kbPath != "" {
		knowledge, err = kb.Load(flags.kbPath, schema)
	} else {
		knowledge, err = kb.Default(schema)
	}
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base: %w", err)
	}

	return session.NewCatalog(knowledge, schema, log)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.fastrec"
}
