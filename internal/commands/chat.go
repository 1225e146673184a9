package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/alimah/internal/config"
	"github.com/diogo/alimah/internal/logging"
	"github.com/diogo/alimah/internal/models"
	"github.com/diogo/alimah/internal/render"
	"github.com/diogo/alimah/internal/tui"
)

// chatFlags override the configured backend for one chat
type chatFlags struct {
	simulate   bool
	lang       string
	backend    string
	mute       bool
	transcript string
}

func newChatCmd(deps *Dependencies, g *globalFlags) *cobra.Command {
	f := &chatFlags{}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Replies are read aloud when espeak-ng is installed. Press ctrl+t to switch
between English and Kiswahili; the whole conversation is translated.
Press esc or ctrl+c to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, g, f)
		},
	}

	cmd.Flags().BoolVar(&f.simulate, "simulate", false, "Use the offline canned-reply assistant")
	cmd.Flags().StringVarP(&f.lang, "lang", "l", "", "Starting language (en or sw)")
	cmd.Flags().StringVar(&f.backend, "backend", "", "Backend URL (http(s):// or ws(s)://)")
	cmd.Flags().BoolVar(&f.mute, "mute", false, "Do not read replies aloud")
	cmd.Flags().StringVar(&f.transcript, "transcript", "", "Write the conversation to this file on exit (.md or .json)")
	cmd.MarkFlagsMutuallyExclusive("simulate", "backend")
	return cmd
}

// applyChatFlags overrides cfg with the chat command's flags
func applyChatFlags(cfg *config.Config, f *chatFlags) error {
	switch {
	case f.simulate:
		cfg.Backend = config.BackendSimulated
	case f.backend != "":
		cfg.Backend = config.BackendRemote
		cfg.BackendURL = f.backend
	}
	return applyLanguage(cfg, f.lang)
}

func runChat(cmd *cobra.Command, deps *Dependencies, g *globalFlags, f *chatFlags) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return err
	}
	if err := applyChatFlags(&cfg, f); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file
	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return err
	}
	closer, err := logging.SetupFile(logPath, logLevel(g, cfg))
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closer.Close()
	logger := slog.Default()
	logger.Info("starting chat", "backend", cfg.Backend, "language", cfg.Language)

	session, err := deps.buildSession(cfg, logger, !f.mute)
	if err != nil {
		return err
	}
	defer session.Close()

	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		tui.UpdateTheme()
	}

	mdOpts := render.LoadOptions(cfg)
	err = deps.RunChat(cmd.Context(), session, tui.Options{
		ShowTimestamps: cfg.ShowTimestamps,
		Markdown:       &mdOpts,
	})

	if f.transcript != "" {
		title := fmt.Sprintf("%s chat, %s", models.AssistantName, time.Now().Format("2006-01-02 15:04"))
		if werr := session.Store().WriteTranscript(f.transcript, title); werr != nil {
			logger.Error("transcript not written", "path", f.transcript, "error", werr)
			return errors.Join(err, werr)
		}
		logger.Info("transcript written", "path", f.transcript, "messages", session.Store().Len())
	}
	return err
}
