package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	historyCmd := &cobra.Command{Use: "history", Short: "Chat history operations"}

	// list
	var query string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List past exchanges grouped by date",
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			view, err := service.NewHistoryService(cli.client).View(cmd.Context(), query)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, view)
			}

			if view.Matched == 0 {
				fmt.Fprintln(os.Stdout, "No conversations found")
				return nil
			}
			for _, g := range view.Groups {
				fmt.Fprintf(os.Stdout, "%s\n", g.Label)
				for _, e := range g.Entries {
					fmt.Fprintf(os.Stdout, "  [%s] %s\n", orDash(e.SessionID), oneLine(e.UserMessage, 72))
				}
			}
			fmt.Fprintf(os.Stdout, "\n%d of %d exchanges\n", view.Matched, view.Total)
			return nil
		}),
	}
	listCmd.Flags().StringVarP(&query, "query", "q", "", "Search messages and replies")
	historyCmd.AddCommand(listCmd)

	// session
	historyCmd.AddCommand(&cobra.Command{
		Use:   "session SESSION_ID",
		Short: "Replay one chat session",
		Args:  cobra.ExactArgs(1),
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			user := cli.sessions.Snapshot().User
			entries, err := service.NewHistoryService(cli.client).Session(cmd.Context(), user.ID, args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, entries)
			}
			for _, e := range entries {
				printTurn(domain.ChatTurn{Role: domain.RoleUser, Content: e.UserMessage})
				printTurn(domain.ChatTurn{Role: domain.RoleAssistant, Content: e.AIResponse})
			}
			return nil
		}),
	})

	// clear
	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all of your chat history",
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			if !yes {
				answer, err := prompt("Delete all chat history? [y/N] ")
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					fmt.Fprintln(os.Stdout, "Aborted")
					return nil
				}
			}

			deleted, err := service.NewHistoryService(cli.client).Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Deleted %d exchanges\n", deleted)
			return nil
		}),
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	historyCmd.AddCommand(clearCmd)

	rootCmd.AddCommand(historyCmd)
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func printTurn(t domain.ChatTurn) {
	label := "you"
	if t.Role == domain.RoleAssistant {
		label = "assistant"
	}
	fmt.Fprintf(os.Stdout, "%s> %s\n", label, t.Content)
}
