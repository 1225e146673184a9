package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apierrors "github.com/diogo/alimah/internal/errors"
	"github.com/diogo/alimah/internal/models"
)

func newTranslateCmd(deps *Dependencies, g *globalFlags) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate text between English and Kiswahili",
		Long: `Translate text with the configured translation service.

On failure the original text is printed and a warning is logged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := models.ParseLanguage(from)
			if err != nil {
				return err
			}
			dst, err := models.ParseLanguage(to)
			if err != nil {
				return err
			}
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return apierrors.ErrEmptyInput
			}

			cfg, err := deps.loadConfig()
			if err != nil {
				return err
			}
			logger := stderrLogger(deps, g, cfg)

			translator, err := deps.Translator(cfg, logger)
			if err != nil {
				return err
			}

			out, err := translator.Translate(cmd.Context(), text, src, dst)
			if err != nil {
				logger.Warn("translation failed, printing original", "from", src, "to", dst, "error", err)
				out = text
			}
			fmt.Fprintln(deps.Stdout, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", string(models.English), "Source language (en or sw)")
	cmd.Flags().StringVar(&to, "to", string(models.Swahili), "Target language (en or sw)")
	return cmd
}

func newSpeakCmd(deps *Dependencies, g *globalFlags) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Read text aloud",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.loadConfig()
			if err != nil {
				return err
			}
			if err := applyLanguage(&cfg, lang); err != nil {
				return err
			}
			logger := stderrLogger(deps, g, cfg)

			synth := deps.Synthesizer(cfg, logger)
			if synth == nil || !synth.Available() {
				return fmt.Errorf("%s: %w", cfg.TTSCommand, apierrors.ErrUnavailable)
			}
			return synth.Speak(cmd.Context(), strings.Join(args, " "), cfg.LanguageMode().Locale())
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Voice language (en or sw)")
	return cmd
}

func newListenCmd(deps *Dependencies, g *globalFlags) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Record one utterance from the microphone and print the transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.loadConfig()
			if err != nil {
				return err
			}
			if err := applyLanguage(&cfg, lang); err != nil {
				return err
			}
			logger := stderrLogger(deps, g, cfg)

			rec := deps.Recognizer(cfg, logger)
			if rec == nil || !rec.Available() {
				return fmt.Errorf("%s: %w", cfg.STTCommand, apierrors.ErrUnavailable)
			}

			locale := cfg.LanguageMode().Locale()
			logger.Info("listening", "locale", locale)
			text, err := rec.Recognize(cmd.Context(), locale)
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Recognition language (en or sw)")
	return cmd
}
