package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"splitbill/internal/cli"
	"splitbill/internal/config"
	"splitbill/internal/log"
	"splitbill/internal/ui"
	"splitbill/internal/wizard"
)

type app struct {
	cfg    *config.Config
	logger *log.Logger
}

var (
	envFile  string
	logLevel string
	plain    bool
	appCtx   *app
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "splitbill",
		Short:         "Split itemized bills between friends",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.LoadEnvFile(envFile); err != nil {
				return err
			}
			boot := log.New(log.Config{Level: slog.LevelWarn, Output: cmd.ErrOrStderr()})
			cfg, err := cli.LoadAndValidateConfig(boot)
			if err != nil {
				return err
			}
			if logLevel != "" {
				if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
					return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
				}
			}
			logger := cli.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			logger.Debug("configuration loaded",
				log.FieldOperation, log.OpStartup,
				log.FieldCurrency, cfg.Currency,
				"share_base_url", cfg.ShareBaseURL,
				"max_participants", cfg.MaxParticipants)

			appCtx = &app{cfg: cfg, logger: logger}
			cmd.SetContext(log.NewContext(cmd.Context(), logger))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides SPLITBILL_LOG_LEVEL")
	root.PersistentFlags().BoolVar(&plain, "plain", false, "disable colors and styling")

	root.AddCommand(newCmd(), calcCmd(), openCmd())
	return root
}

// Execute runs the CLI and reports any error on stderr.
func Execute(ctx context.Context) error {
	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %s\n", ui.Describe(err))
		slog.Debug("command failed", log.FieldError, err, log.FieldErrorType, errorType(err))
	}
	return err
}

// errorType classifies a command failure for logging.
func errorType(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return log.ErrorTypeIO
	}
	return wizard.ErrorType(err)
}

// renderer picks styled output only when writing straight to a terminal.
func renderer(out io.Writer) ui.Renderer {
	styled := false
	if f, ok := out.(*os.File); ok && !plain {
		styled = ui.IsTerminal(f)
	}
	return ui.Renderer{Symbol: appCtx.cfg.Symbol(), Styled: styled}
}

// shareLink prints the share URL for a session token and optionally copies it.
func shareLink(cmd *cobra.Command, r ui.Renderer, link string, copyLink bool) {
	out := cmd.OutOrStdout()
	r.Link(out, link)
	if !copyLink && !appCtx.cfg.CopyLink {
		return
	}
	logger := log.ComponentFromContext(cmd.Context(), log.ComponentUI)
	if err := ui.Copy(link); err != nil {
		logger.Warn("copy to clipboard failed", log.FieldOperation, log.OpCopy, log.FieldError, err)
		fmt.Fprintln(out, "Could not copy the link to the clipboard.")
		return
	}
	fmt.Fprintln(out, "Link copied to clipboard.")
}
