package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room operations",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomInfoCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var (
		text      string
		textFile  string
		maxRounds int
	)

	cmd := &cobra.Command{
		Use:   "create <game-type>",
		Short: "Create a room (quiz, tongue-twister, or tic-tac-toe)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"game_type": args[0]}

			if textFile != "" {
				data, err := os.ReadFile(textFile)
				if err != nil {
					return fmt.Errorf("failed to read text file: %w", err)
				}
				text = string(data)
			}
			if text != "" {
				body["text"] = text
			}
			if maxRounds > 0 {
				body["max_rounds"] = maxRounds
			}

			var result Room
			if err := client.Post("/api/rooms", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Source text for quiz question generation")
	cmd.Flags().StringVar(&textFile, "text-file", "", "File containing source text for quiz question generation")
	cmd.Flags().IntVar(&maxRounds, "rounds", 0, "Number of rounds (default server-side)")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Show a room's full state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room
			if err := client.Get("/api/rooms/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <code>",
		Short: "Show whether a room can be joined",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinInfo
			if err := client.Get("/api/join/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
