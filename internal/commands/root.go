// Package commands provides CLI commands for alimah.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/alimah/internal/config"
	"github.com/diogo/alimah/internal/logging"
	"github.com/diogo/alimah/internal/models"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are shared by every command
type globalFlags struct {
	configPath string
	envFile    string
	logLevel   string
}

// queryFlags are the one-shot flags of the root command
type queryFlags struct {
	file   string
	raw    bool
	speak  bool
	copy   bool
	lang   string
	output string
}

// NewRootCmd builds the command tree on deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	g := &globalFlags{}
	q := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "alimah [message]",
		Short: "Bilingual mental-health support chat in the terminal",
		Long: `alimah is a chat client for a mental-health support assistant.
Conversations switch between English and Kiswahili, replies can be read
aloud, and messages can be dictated through the microphone.

Examples:
  alimah chat                           Start interactive chat
  alimah chat --simulate                Chat with the offline assistant
  alimah "I feel anxious"               Send a single message
  alimah -f note.md                     Read the message from a file
  echo "hello" | alimah                 Read the message from stdin
  alimah translate "How are you?" --to sw
  alimah config set language sw`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if g.configPath != "" {
				config.SetConfigPath(g.configPath)
			}
			if err := config.LoadEnvFile(g.envFile); err != nil {
				return fmt.Errorf("failed to load env file: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "alimah %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if q.file != "" {
				data, err := os.ReadFile(q.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return runQuery(cmd.Context(), deps, g, q, string(data))
			}

			if len(args) > 0 {
				return runQuery(cmd.Context(), deps, g, q, args[0])
			}

			if hasPipedInput(deps.Stdin) {
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				return runQuery(cmd.Context(), deps, g, q, string(data))
			}

			// No input - show help
			return cmd.Help()
		},
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to config file (default ~/.alimah/config.json)")
	cmd.PersistentFlags().StringVar(&g.envFile, "env", "", "Path to .env file (default ./.env)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.Flags().StringVarP(&q.file, "file", "f", "", "Read message from file")
	cmd.Flags().StringVarP(&q.output, "output", "o", "", "Save reply to file")
	cmd.Flags().StringVarP(&q.lang, "lang", "l", "", "Conversation language (en or sw)")
	cmd.Flags().BoolVar(&q.raw, "raw", false, "Print only the reply text")
	cmd.Flags().BoolVar(&q.speak, "speak", false, "Read the reply aloud")
	cmd.Flags().BoolVar(&q.copy, "copy", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(
		newChatCmd(deps, g),
		newTranslateCmd(deps, g),
		newSpeakCmd(deps, g),
		newListenCmd(deps, g),
		NewConfigCmd(deps),
	)
	return cmd
}

// Execute runs the root command until it returns or the process is interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := NewDependencies()
	if err := NewRootCmd(deps).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err))
		stop()
		os.Exit(1)
	}
}

// stderrLogger installs a logger writing to the command's stderr
func stderrLogger(deps *Dependencies, g *globalFlags, cfg config.Config) *slog.Logger {
	return logging.Setup(logging.Options{
		Level:  logLevel(g, cfg),
		Writer: deps.Stderr,
	})
}

func logLevel(g *globalFlags, cfg config.Config) string {
	if g.logLevel != "" {
		return g.logLevel
	}
	return cfg.LogLevel
}

// applyLanguage overrides the configured language with a --lang value
func applyLanguage(cfg *config.Config, lang string) error {
	if lang == "" {
		return nil
	}
	l, err := models.ParseLanguage(lang)
	if err != nil {
		return err
	}
	cfg.Language = string(l)
	return nil
}

// hasPipedInput reports whether r is a pipe or file rather than a terminal
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
