package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Rrens/campus-console/internal/backend"
	"github.com/Rrens/campus-console/internal/chat"
	"github.com/Rrens/campus-console/internal/domain"
	"github.com/spf13/cobra"
)

func init() {
	// ask
	var guest string
	askCmd := &cobra.Command{
		Use:   "ask MESSAGE...",
		Short: "Get a one-shot reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			turns := []domain.ChatTurn{{
				Role:      domain.RoleUser,
				Content:   strings.Join(args, " "),
				Timestamp: domain.Now(),
			}}

			var (
				reply string
				err   error
			)
			if guest != "" {
				reply, err = cli.client.GuestReply(cmd.Context(), guest, turns)
			} else {
				if err := requireSession(); err != nil {
					return err
				}
				reply, err = cli.client.Reply(cmd.Context(), turns)
			}
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(os.Stdout, domain.ChatReply{Response: reply})
			}
			fmt.Fprintln(os.Stdout, reply)
			return nil
		},
	}
	askCmd.Flags().StringVar(&guest, "guest", "", "Ask as a guest on behalf of this user ID")
	rootCmd.AddCommand(askCmd)

	// chat
	var noHistory bool
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive streaming chat, seeded from your history",
		RunE: authed(func(cmd *cobra.Command, args []string) error {
			conv := chat.NewConversation(cli.client, cli.sessions, chat.Options{
				WelcomeMessage: cli.cfg.Chat.WelcomeMessage,
				MaxInputLength: cli.cfg.Chat.MaxInputLength,
			})
			defer conv.Close()

			if !noHistory {
				if err := conv.SeedOnce(cmd.Context(), cli.client); err != nil {
					if backend.IsUnauthorized(err) {
						return err
					}
					fmt.Fprintf(os.Stderr, "could not load history: %v\n", err)
				}
			}
			for _, t := range conv.Turns() {
				printTurn(t)
			}

			return runREPL(cmd, conv, os.Stdin, os.Stdout)
		}),
	}
	chatCmd.Flags().BoolVar(&noHistory, "no-history", false, "Start without past exchanges")
	rootCmd.AddCommand(chatCmd)
}

// replyPrinter writes the growing assistant turn as fragments arrive
type replyPrinter struct {
	out     io.Writer
	printed int
}

func (p *replyPrinter) observe(s chat.Snapshot) {
	if s.State != chat.StateStreaming || len(s.Turns) == 0 {
		return
	}
	last := s.Turns[len(s.Turns)-1]
	if last.Role != domain.RoleAssistant || len(last.Content) <= p.printed {
		return
	}
	if p.printed == 0 {
		fmt.Fprint(p.out, "assistant> ")
	}
	fmt.Fprint(p.out, last.Content[p.printed:])
	p.printed = len(last.Content)
}

func runREPL(cmd *cobra.Command, conv *chat.Conversation, in io.Reader, out io.Writer) error {
	p := &replyPrinter{out: out}
	unsubscribe := conv.Observe(p.observe)
	defer unsubscribe()

	fmt.Fprintln(out, "Type a message, or /exit to quit.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		}

		p.printed = 0
		err := conv.Submit(line)
		if errors.Is(err, chat.ErrInputTooLong) {
			fmt.Fprintf(out, "message is longer than %d characters\n", cli.cfg.Chat.MaxInputLength)
			continue
		}
		if err != nil {
			return err
		}

		if err := conv.Wait(cmd.Context()); err != nil {
			return err
		}
		if p.printed > 0 {
			fmt.Fprintln(out)
		}

		if notice := conv.Snapshot().Notice; notice != "" {
			fmt.Fprintln(out, notice)
		}
		// the feed was refused and the session is gone
		if !cli.sessions.Snapshot().IsAuthenticated {
			return backend.ErrUnauthorized
		}
	}
}
