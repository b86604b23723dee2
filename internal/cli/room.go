package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomQRCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var (
		hostName   string
		language   string
		categories []string
		puzzleID   int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"host_name":  hostName,
				"language":   language,
				"categories": categories,
			}
			if puzzleID > 0 {
				req["puzzle_id"] = puzzleID
			}

			var result Room
			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&hostName, "host-name", "", "Display name for the host (required)")
	cmd.Flags().StringVar(&language, "language", "en", "Content language: en, es")
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "Trivia categories (default: all)")
	cmd.Flags().IntVar(&puzzleID, "puzzle-id", 0, "Puzzle id (default: server picks)")
	_ = cmd.MarkFlagRequired("host-name")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])

			var result Room
			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s", code), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	var guestName string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room as the guest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])

			var result Room
			req := map[string]string{"guest_name": guestName}
			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/join", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&guestName, "guest-name", "", "Display name for the guest (required)")
	_ = cmd.MarkFlagRequired("guest-name")

	return cmd
}

func newRoomLeaveCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])

			req := map[string]string{"role": role}
			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/leave", code), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left room %s", code))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "guest", "Seat to vacate: host, guest")

	return cmd
}

func newRoomQRCmd() *cobra.Command {
	var (
		outFile string
		size    int
	)

	cmd := &cobra.Command{
		Use:   "qr <code>",
		Short: "Download the room's join QR code as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])

			png, err := client.GetRaw(fmt.Sprintf("/api/v1/rooms/%s/qr?size=%d", code, size))
			if err != nil {
				return err
			}

			if outFile == "" || outFile == "-" {
				_, err = os.Stdout.Write(png)
				return err
			}

			if err := os.WriteFile(outFile, png, 0644); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Wrote %s", outFile))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "f", "", "Output file (default: stdout)")
	cmd.Flags().IntVar(&size, "size", 320, "Image size in pixels")

	return cmd
}
