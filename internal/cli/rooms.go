package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newRoomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Inspect live rooms",
	}

	cmd.AddCommand(newRoomsListCmd())
	cmd.AddCommand(newRoomsGetCmd())
	cmd.AddCommand(newRoomsRenderCmd())
	cmd.AddCommand(newRoomsAddBotCmd())

	return cmd
}

func newRoomsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomList

			if err := client.Get("/api/v1/rooms", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newRoomsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <room>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s", url.PathEscape(args[0])), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newRoomsRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <room> <grid>",
		Short: "Draw one grid of a room",
		Long:  "Draw one grid of a room. Ship positions are only shown once the game is over.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/rooms/%s/grids/%s/render", url.PathEscape(args[0]), url.PathEscape(args[1]))

			rendered, err := client.GetText(path)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(Rendered(rendered))
			return nil
		},
	}
}

func newRoomsAddBotCmd() *cobra.Command {
	var strategy, passcode string

	cmd := &cobra.Command{
		Use:   "add-bot <room>",
		Short: "Seat a computer opponent in a room",
		Long:  "Seat a computer opponent in a room that is waiting for its second player. Strategies: hunt (default), random.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"strategy": strategy, "passcode": passcode}

			var result Bot
			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/bots", url.PathEscape(args[0])), body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Bot strategy: hunt, random")
	cmd.Flags().StringVar(&passcode, "passcode", "", "Room passcode")

	return cmd
}
