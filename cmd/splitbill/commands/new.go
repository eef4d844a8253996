package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"splitbill/internal/log"
	"splitbill/internal/ui"
	"splitbill/internal/wizard"
)

// new: interactive wizard from group name to the computed split.
func newCmd() *cobra.Command {
	var (
		copyLink bool
		noFzf    bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new split interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			logger := log.FromContext(ctx)

			p := ui.NewPrompter(cmd.InOrStdin(), out)
			fuzzy := !noFzf && cmd.InOrStdin() == os.Stdin
			r := renderer(out)
			w := wizard.New(
				wizard.WithLogger(logger),
				wizard.WithMaxParticipants(appCtx.cfg.MaxParticipants),
			)
			flow := &ui.Flow{
				Wizard:   w,
				Prompter: p,
				Picker:   ui.NewPicker(p, fuzzy),
				Renderer: r,
			}

			ledger, err := flow.Run(ctx)
			if errors.Is(err, ui.ErrAborted) {
				fmt.Fprintln(out, "\nCancelled.")
				return nil
			}
			if err != nil {
				return err
			}

			snap := w.Snapshot()
			fmt.Fprintln(out)
			r.Ledger(out, snap.GroupName, ledger)

			link, err := w.ShareURL(appCtx.cfg.ShareBaseURL)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			shareLink(cmd, r, link, copyLink)
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyLink, "copy", false, "copy the share link to the clipboard")
	cmd.Flags().BoolVar(&noFzf, "no-fzf", false, "pick people by number instead of the fuzzy finder")
	return cmd
}
