package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"splitbill/internal/log"
	"splitbill/internal/sessionfile"
	"splitbill/internal/wizard"
)

// open <link|token>: show a shared split read-only.
func openCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "open <link|token|->",
		Short: "Show a shared split from its link or token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			raw := args[0]
			if raw == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read link from stdin: %w", err)
				}
				raw = strings.TrimSpace(string(b))
			}

			w := wizard.New(
				wizard.WithLogger(log.FromContext(cmd.Context())),
				wizard.WithMaxParticipants(appCtx.cfg.MaxParticipants),
			)
			if !w.Open(raw) {
				fmt.Fprintln(out, "No shared split found in that link. Start a new one with 'splitbill new'.")
				return nil
			}

			s := w.Snapshot()
			if asYAML {
				return sessionfile.Write(out, s)
			}

			r := renderer(out)
			fmt.Fprintln(out, "Shared split (read-only)")
			r.Expenses(out, s)
			fmt.Fprintln(out)
			ledger, _ := w.Ledger()
			r.Ledger(out, s.GroupName, ledger)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the shared session as a YAML session file")
	return cmd
}
