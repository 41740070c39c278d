package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/cardwar/internal/services/snapshot"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "In-play commands",
	}

	cmd.AddCommand(newSessionViewCmd("get", "Show the session", ""))
	cmd.AddCommand(newSessionViewCmd("play", "Play your top card", "/play"))
	cmd.AddCommand(newSessionViewCmd("forfeit", "Concede the session", "/forfeit"))
	cmd.AddCommand(newSessionEndCmd())

	return cmd
}

func sessionPath(id string) string {
	return "/api/v1/sessions/" + url.PathEscape(id)
}

// newSessionViewCmd builds a command that prints the session view returned
// by GET (action "") or POST to the action path
func newSessionViewCmd(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <session-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result snapshot.View
			var err error
			if action == "" {
				err = client.Get(cmd.Context(), sessionPath(args[0]), &result)
			} else {
				err = client.Post(cmd.Context(), sessionPath(args[0])+action, nil, &result)
			}
			if err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "End the session and close its room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), sessionPath(args[0])); err != nil {
				return err
			}
			output(cmd).PrintMessage("Session ended")
			return nil
		},
	}
}
