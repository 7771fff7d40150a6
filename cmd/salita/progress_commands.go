package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"salita/internal/api"
)

func newProgressCommand(ctx *commandContext) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "progress <user id>",
		Short: "Show XP, streak, and level progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				view, err := svc.Progress(c, args[0])
				if err != nil {
					return err
				}
				return ctx.render(cmd, view, func() error {
					printProgress(cmd.OutOrStdout(), view, all)
					return nil
				})
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include locked sections")
	return cmd
}

func printProgress(out io.Writer, view api.ProgressView, all bool) {
	fmt.Fprintf(out, "Total XP:  %d\n", view.TotalXP)
	fmt.Fprintf(out, "Streak:    %d day(s) (longest %d)\n", view.Streak.Current, view.Streak.Longest)
	fmt.Fprintf(out, "Levels:    %d/%d completed\n", view.CompletedLevels, view.TotalLevels)
	if view.Current != nil {
		fmt.Fprintf(out, "Next:      %d-%d\n", view.Current.Section, view.Current.Level)
	}
	if len(view.XP) > 0 {
		parts := make([]string, 0, len(view.XP))
		for _, game := range slices.Sorted(maps.Keys(view.XP)) {
			parts = append(parts, fmt.Sprintf("%s %d", game, view.XP[game]))
		}
		fmt.Fprintf(out, "XP by game: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintln(out)

	rows := make([][]string, 0)
	for _, s := range view.Sections {
		if !s.Unlocked && !all {
			continue
		}
		for _, l := range s.Levels {
			state := "locked"
			switch {
			case l.Completed:
				state = "done"
			case l.Unlocked:
				state = "open"
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d-%d", s.Section, l.Level),
				l.Title,
				l.Game,
				state,
				stars(l.Stars),
				fmt.Sprintf("%d%%", l.BestScore),
				fmt.Sprintf("%d", l.Attempts),
			})
		}
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Level", "Title", "Game", "State", "Stars", "Best", "Plays"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	))
}

func newQuestsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "quests <user id>",
		Short: "Show today's quests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				board, err := svc.Quests(c, args[0])
				if err != nil {
					return err
				}
				return ctx.render(cmd, board, func() error {
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Quests for %s (%s), reset at %s\n", board.Date, board.Timezone, board.NextReset)
					printQuests(out, board.Quests)
					return nil
				})
			})
		},
	}
}

func printQuests(out io.Writer, quests []api.QuestView) {
	rows := make([][]string, 0, len(quests))
	for _, q := range quests {
		rows = append(rows, []string{
			q.Title,
			fmt.Sprintf("%d/%d", q.Progress, q.Target),
			fmt.Sprintf("%d", q.RewardXP),
			yesNo(q.Completed),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Quest", "Progress", "Reward XP", "Done"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
	))
}

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var req api.GameRequest
	cmd := &cobra.Command{
		Use:   "play <user id>",
		Short: "Record a finished round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				out, err := svc.RecordGame(c, args[0], req)
				if err != nil {
					return err
				}
				return ctx.render(cmd, out, func() error {
					printOutcome(cmd.OutOrStdout(), req, out)
					return nil
				})
			})
		},
	}
	cmd.Flags().IntVar(&req.Section, "section", 1, "Section number")
	cmd.Flags().IntVar(&req.Level, "level", 1, "Level number within the section")
	cmd.Flags().StringVar(&req.Game, "game", "", "Game type (checked against the level when set)")
	cmd.Flags().IntVar(&req.Correct, "correct", 0, "Correct answers")
	cmd.Flags().IntVar(&req.Total, "total", 0, "Questions in the round")
	_ = cmd.MarkFlagRequired("correct")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func printOutcome(w io.Writer, req api.GameRequest, out api.GameOutcome) {
	fmt.Fprintf(w, "Level %d-%d (%s): %d/%d, %d%% %s\n", req.Section, req.Level, out.Game, req.Correct, req.Total, out.Score, stars(out.Stars))
	fmt.Fprintf(w, "XP earned: %d", out.XPEarned)
	if out.QuestXP > 0 {
		fmt.Fprintf(w, " (+%d from quests)", out.QuestXP)
	}
	fmt.Fprintf(w, ", total %d\n", out.TotalXP)
	fmt.Fprintf(w, "Streak: %d day(s)\n", out.Streak)
	if out.LevelCompleted {
		fmt.Fprintln(w, "Level completed!")
	}
	if out.SectionCompleted {
		fmt.Fprintln(w, "Section completed!")
	}
	for _, pos := range out.UnlockedLevels {
		fmt.Fprintf(w, "Unlocked level %d-%d\n", pos.Section, pos.Level)
	}
	for _, q := range out.CompletedQuests {
		fmt.Fprintf(w, "Quest complete: %s (+%d XP)\n", q.Title, q.RewardXP)
	}
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <user id>",
		Short: "Show recent rounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				games, err := svc.History(c, args[0], limit)
				if err != nil {
					return err
				}
				return ctx.render(cmd, games, func() error {
					out := cmd.OutOrStdout()
					if len(games) == 0 {
						fmt.Fprintln(out, "No rounds played yet")
						return nil
					}
					rows := make([][]string, 0, len(games))
					for _, g := range games {
						rows = append(rows, []string{
							g.PlayedAt,
							fmt.Sprintf("%d-%d", g.Section, g.Level),
							g.Game,
							fmt.Sprintf("%d/%d", g.Correct, g.Total),
							fmt.Sprintf("%d", g.XP+g.QuestXP),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Played", "Level", "Game", "Score", "XP"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
					))
					return nil
				})
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of rounds (default api.history_limit)")
	return cmd
}

func newLeaderboardCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank learners by total XP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				entries, err := svc.Leaderboard(c, limit)
				if err != nil {
					return err
				}
				return ctx.render(cmd, entries, func() error {
					out := cmd.OutOrStdout()
					if len(entries) == 0 {
						fmt.Fprintln(out, "Leaderboard is empty")
						return nil
					}
					rows := make([][]string, 0, len(entries))
					for _, e := range entries {
						rows = append(rows, []string{
							fmt.Sprintf("%d", e.Rank),
							e.DisplayName,
							fmt.Sprintf("%d", e.TotalXP),
							fmt.Sprintf("%d", e.Streak),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"#", "Learner", "XP", "Streak"},
						rows,
						[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
					))
					return nil
				})
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of learners (default api.leaderboard_limit)")
	return cmd
}
