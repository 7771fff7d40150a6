package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"salita/internal/api"
	"salita/internal/nlp/chat"
)

func newTagCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <text>",
		Short: "Tag parts of speech in a Tagalog sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				result, err := svc.Tag(c, api.TagRequest{Text: strings.Join(args, " ")})
				if err != nil {
					return err
				}
				return ctx.render(cmd, result, func() error {
					rows := make([][]string, 0, len(result.Tokens))
					for _, tok := range result.Tokens {
						rows = append(rows, []string{tok.Text, tok.POS, tok.Lemma})
					}
					out := cmd.OutOrStdout()
					fmt.Fprintln(out, renderTable([]string{"Token", "POS", "Lemma"}, rows, nil))
					fmt.Fprintf(out, "Source: %s\n", result.Source)
					return nil
				})
			})
		},
	}
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var expected string
	cmd := &cobra.Command{
		Use:   "verify <sentence>",
		Short: "Check a Tagalog sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				result, err := svc.Verify(c, api.VerifyRequest{Sentence: strings.Join(args, " "), Expected: expected})
				if err != nil {
					return err
				}
				return ctx.render(cmd, result, func() error {
					out := cmd.OutOrStdout()
					colorize := shouldColorize(out)
					kind := statusWarn
					if result.Valid {
						kind = statusOK
					}
					fmt.Fprintln(out, renderStatusLine("verdict", kind, result.Feedback, colorize))
					fmt.Fprintln(out, renderStatusLine("score", statusInfo, fmt.Sprintf("%.2f", result.Score), colorize))
					fmt.Fprintln(out, renderStatusLine("source", statusInfo, string(result.Source), colorize))
					return nil
				})
			})
		},
	}
	cmd.Flags().StringVar(&expected, "expected", "", "Expected answer to grade against")
	return cmd
}

func newChatCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Send one message to the conversation tutor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				reply, err := svc.Chat(c, api.ChatRequest{Messages: []chat.Message{
					{Role: chat.RoleUser, Content: strings.Join(args, " ")},
				}})
				if err != nil {
					return err
				}
				return ctx.render(cmd, reply, func() error {
					fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
					return nil
				})
			})
		},
	}
}
