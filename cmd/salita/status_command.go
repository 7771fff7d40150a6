package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"salita/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check database, NLP service, and chat provider readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				status, err := svc.Status(c)
				if err != nil {
					return err
				}
				return ctx.render(cmd, status, func() error {
					out := cmd.OutOrStdout()
					colorize := shouldColorize(out)
					for _, line := range renderSectionHeader("Salita "+strings.ToUpper(status.Status), colorize) {
						fmt.Fprintln(out, line)
					}
					for _, comp := range status.Components {
						kind := statusOK
						if !comp.Ready {
							kind = statusWarn
							if comp.Name == "database" {
								kind = statusError
							}
						}
						fmt.Fprintln(out, renderStatusLine(comp.Name, kind, comp.Detail, colorize))
					}
					fmt.Fprintln(out, renderStatusLine("learners", statusInfo, fmt.Sprintf("%d", status.Users), colorize))
					fmt.Fprintln(out, renderStatusLine("games", statusInfo, fmt.Sprintf("%d", status.Games), colorize))
					return nil
				})
			})
		},
	}
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List sections, levels, and game types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(_ context.Context, svc *api.Service) error {
				catalog := svc.Catalog()
				return ctx.render(cmd, catalog, func() error {
					rows := make([][]string, 0)
					for _, s := range catalog.Sections {
						for _, l := range s.Levels {
							rows = append(rows, []string{
								fmt.Sprintf("%d-%d", s.Section, l.Level),
								s.Title,
								l.Title,
								l.Game,
								fmt.Sprintf("%d", l.Questions),
							})
						}
					}
					fmt.Fprintln(cmd.OutOrStdout(), renderTable(
						[]string{"Level", "Section", "Title", "Game", "Questions"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
					))
					return nil
				})
			})
		},
	}
}
