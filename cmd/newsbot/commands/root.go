// ABOUTME: Root command, global flags, and shared runtime setup for the newsbot CLI
// ABOUTME: Loads .env, configures logging, and builds the knowledge base runtime on demand
package commands

import (
	"fmt"

	"github.com/harper/newsbot/internal/config"
	"github.com/harper/newsbot/internal/core"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	configPath   string
	kbPath       string
)

// runtimeLoader builds the runtime for commands that answer questions.
// Tests swap it for an in-memory runtime.
var runtimeLoader = loadRuntime

const banner = `
███╗   ██╗███████╗██╗    ██╗███████╗██████╗  ██████╗ ████████╗
████╗  ██║██╔════╝██║    ██║██╔════╝██╔══██╗██╔═══██╗╚══██╔══╝
██╔██╗ ██║█████╗  ██║ █╗ ██║███████╗██████╔╝██║   ██║   ██║
██║╚██╗██║██╔══╝  ██║███╗██║╚════██║██╔══██╗██║   ██║   ██║
██║ ╚████║███████╗╚███╔███╔╝███████║██████╔╝╚██████╔╝   ██║
╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝╚═════╝  ╚═════╝    ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsbot",
		Short: "Chat with a news knowledge base",
		Long: banner + `
Answer questions from a local knowledge base using retrieval-augmented
generation. Knowledge entries are embedded once at startup, the most
similar entries are retrieved for each question, and a chat model answers
using only that context.

Knowledge is read from <base>.json or <base>.txt (default base: news).
The OpenAI API key comes from secrets.toml ([openai] api_key) or the
OPENAI_API_KEY environment variable.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupEnvironment,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to secrets.toml")
	cmd.PersistentFlags().StringVar(&kbPath, "kb", "", "Knowledge base path (base name, .json or .txt)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewChatCmd(),
		NewAskCmd(),
		NewSearchCmd(),
		NewServeCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func setupEnvironment(cmd *cobra.Command, args []string) error {
	log.SetOutput(cmd.ErrOrStderr())
	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}

	switch outputFormat {
	case "auto", "table", "json":
	default:
		return fmt.Errorf("invalid --format %q: must be auto, table, or json", outputFormat)
	}
	return nil
}

// loadRuntime resolves configuration and embeds the knowledge base
func loadRuntime(cmd *cobra.Command) (*core.Runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if kbPath != "" {
		cfg.KnowledgeBase = kbPath
	}

	rt, err := core.NewRuntime(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("building knowledge base: %w", err)
	}
	return rt, nil
}

func jsonOutput() bool {
	return outputFormat == "json"
}
