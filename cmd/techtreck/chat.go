package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"techtreck/internal/app"
	"techtreck/internal/chatbot"
)

func newChatCmd(c *cli) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask the help bot; without a question, start a conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			var answerer chatbot.Answerer
			if remote {
				answerer = c.client()
			} else {
				bot, err := app.NewBot(c.log, c.cfg)
				if err != nil {
					return err
				}
				answerer = bot
			}
			session := chatbot.NewSession(answerer)

			if len(args) > 0 {
				reply, _ := c.ask(cmd.Context(), session, strings.Join(args, " "))
				fmt.Fprintln(c.out, reply)
				return nil
			}

			fmt.Fprintln(c.out, chatbot.Welcome)
			sc := bufio.NewScanner(c.in)
			for {
				fmt.Fprint(c.out, "> ")
				if !sc.Scan() {
					fmt.Fprintln(c.out)
					return sc.Err()
				}
				line := strings.TrimSpace(sc.Text())
				if line == "exit" || line == "quit" {
					return nil
				}
				if reply, ok := c.ask(cmd.Context(), session, line); ok {
					fmt.Fprintln(c.out, reply)
				}
				if cmd.Context().Err() != nil {
					return nil
				}
			}
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the server's bot instead of a local one")
	return cmd
}

// ask sends one question, bounded by the chatbot timeout.
func (c *cli) ask(ctx context.Context, session *chatbot.Session, text string) (string, bool) {
	if t := c.cfg.Chatbot.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	return session.Send(ctx, text)
}
