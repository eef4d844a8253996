package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"splitbill/internal/core"
	"splitbill/internal/log"
	"splitbill/internal/sessionfile"
	"splitbill/internal/share"
	"splitbill/internal/split"
)

// calc -f <file>: compute a split from a YAML session description.
func calcCmd() *cobra.Command {
	var (
		file      string
		withShare bool
		copyLink  bool
	)
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute a split from a YAML session file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.ComponentFromContext(cmd.Context(), log.ComponentSessionFile)
			out := cmd.OutOrStdout()

			s, err := sessionfile.Load(file)
			if err != nil {
				logger.Warn("session file rejected",
					log.NewFields().
						WithOperation(log.OpParse).
						WithErrorType(errorType(err)).
						WithError(err).
						WithPath(file).
						ToSlice()...)
				return err
			}
			logger.Debug("session file loaded",
				log.NewFields().
					WithOperation(log.OpLoad).
					WithSession(s.GroupName, s.PeopleCount(), len(s.Expenses)).
					WithPath(file).
					ToSlice()...)
			if len(s.Expenses) == 0 {
				return &core.ValidationError{Field: "expenses", Err: core.ErrNoExpenses}
			}

			ledger, err := split.Compute(s)
			if err != nil {
				return err
			}
			r := renderer(out)
			r.Ledger(out, s.GroupName, ledger)

			if !withShare && !copyLink {
				return nil
			}
			tok, err := share.Encode(s)
			if err != nil {
				return err
			}
			link, err := share.URL(appCtx.cfg.ShareBaseURL, tok)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			shareLink(cmd, r, link, copyLink)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML session file")
	cmd.Flags().BoolVar(&withShare, "share", false, "print a share link")
	cmd.Flags().BoolVar(&copyLink, "copy", false, "copy the share link to the clipboard (implies --share)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
