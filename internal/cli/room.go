package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/cardwar/internal/api/request"
	"github.com/mcoot/cardwar/internal/api/response"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Matchmaking room commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomListCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())

	return cmd
}

func roomPath(arg string) (string, error) {
	if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
		return "", fmt.Errorf("invalid room id %q", arg)
	}
	return "/api/v1/rooms/" + arg, nil
}

func newRoomCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a room and wait for an opponent",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateRoomRequest{Name: name}
			var result response.Room
			if err := client.Post(cmd.Context(), "/api/v1/rooms", req, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Room name (default: \"<your name>'s room\")")

	return cmd
}

func newRoomListCmd() *cobra.Command {
	var state string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if state != "" {
				q.Set("state", state)
			}
			if page > 0 {
				q.Set("page", strconv.Itoa(page))
			}
			if pageSize > 0 {
				q.Set("page_size", strconv.Itoa(pageSize))
			}
			path := "/api/v1/rooms"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var result response.RoomPage
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "waiting, playing or finished (default waiting)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number, from 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Rooms per page")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <room-id>",
		Short: "Show a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := roomPath(args[0])
			if err != nil {
				return err
			}
			var result response.Room
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <room-id>",
		Short: "Take the open seat in a room and start the duel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := roomPath(args[0])
			if err != nil {
				return err
			}
			var result response.JoinRoomResponse
			if err := client.Post(cmd.Context(), path+"/join", nil, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}
