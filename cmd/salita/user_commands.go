package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"salita/internal/api"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage learners",
	}
	userCmd.AddCommand(newUserCreateCommand(ctx))
	userCmd.AddCommand(newUserListCommand(ctx))
	userCmd.AddCommand(newUserShowCommand(ctx))
	userCmd.AddCommand(newUserTimezoneCommand(ctx))
	return userCmd
}

func newUserCreateCommand(ctx *commandContext) *cobra.Command {
	var timezone string
	cmd := &cobra.Command{
		Use:   "create <display name>",
		Short: "Register a learner",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				user, err := svc.CreateUser(c, api.CreateUserRequest{
					DisplayName: strings.Join(args, " "),
					Timezone:    timezone,
				})
				if err != nil {
					return err
				}
				return ctx.render(cmd, user, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "Created learner %s (%s)\n", user.DisplayName, user.ID)
					return nil
				})
			})
		},
	}
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for quest resets (default quests.timezone)")
	return cmd
}

func newUserListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List learners",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				users, err := svc.ListUsers(c)
				if err != nil {
					return err
				}
				return ctx.render(cmd, users, func() error {
					out := cmd.OutOrStdout()
					if len(users) == 0 {
						fmt.Fprintln(out, "No learners yet")
						return nil
					}
					rows := make([][]string, 0, len(users))
					for _, u := range users {
						rows = append(rows, []string{u.ID, u.DisplayName, u.Timezone, u.CreatedAt})
					}
					fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Timezone", "Created"}, rows, nil))
					return nil
				})
			})
		},
	}
}

func newUserShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a learner profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				user, err := svc.GetUser(c, args[0])
				if err != nil {
					return err
				}
				return ctx.render(cmd, user, func() error {
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "ID:       %s\n", user.ID)
					fmt.Fprintf(out, "Name:     %s\n", user.DisplayName)
					fmt.Fprintf(out, "Timezone: %s\n", user.Timezone)
					fmt.Fprintf(out, "Created:  %s\n", user.CreatedAt)
					return nil
				})
			})
		},
	}
}

func newUserTimezoneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "timezone <id> <zone>",
		Short: "Change the timezone a learner's days roll over in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				user, err := svc.SetTimezone(c, args[0], args[1])
				if err != nil {
					return err
				}
				return ctx.render(cmd, user, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "%s now resets at midnight %s\n", user.DisplayName, user.Timezone)
					return nil
				})
			})
		},
	}
}
