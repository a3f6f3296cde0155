package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "tycoon/internal/cli"
	"tycoon/internal/config"
	"tycoon/internal/game"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "tycoon",
		Short:        "Tycoon: Financial Freedom terminal client",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "API base URL")

	root.AddCommand(
		newContentCmd(&apiBase),
		newNewGameCmd(&apiBase),
		newStatusCmd(&apiBase),
		newCashFlowCmd(&apiBase),
		newAdvanceCmd(&apiBase),
		newChooseCmd(&apiBase),
		newEnrollCmd(&apiBase),
		newHustleCmd(&apiBase),
		newPromoteCmd(&apiBase),
		newActionCmd(&apiBase),
		newQuestsCmd(&apiBase),
		newCourseCmd(&apiBase),
		newBuyCmd(&apiBase),
		newSellCmd(&apiBase),
		newRepayCmd(&apiBase),
		newSavesCmd(&apiBase),
		newGamesCmd(),
		newSwitchCmd(),
		newQuitCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func requestCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func activePlayer() (string, error) {
	sess, err := cl.LoadSession()
	if err != nil {
		return "", fmt.Errorf("no game in progress, run `tycoon new`: %w", err)
	}
	return sess.PlayerID, nil
}

// playerRun wraps commands that act on the current game.
func playerRun(apiBase *string, fn func(ctx context.Context, c *cl.Client, player string, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		player, err := activePlayer()
		if err != nil {
			return err
		}
		ctx, cancel := requestCtx(cmd)
		defer cancel()
		return fn(ctx, newClient(apiBase), player, args)
	}
}

func newContentCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "content",
		Short: "List characters, programs, hustles and market items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			out, err := newClient(apiBase).Content(ctx)
			if err != nil {
				return err
			}
			renderContent(out)
			return nil
		},
	}
}

func newNewGameCmd(apiBase *string) *cobra.Command {
	var difficulty, player string
	var seed int64
	cmd := &cobra.Command{
		Use:   "new [character]",
		Short: "Start a new game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			character := ""
			if len(args) > 0 {
				character = strings.TrimSpace(args[0])
			} else {
				var err error
				character, err = promptRequired("Character")
				if err != nil {
					return err
				}
			}
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			st, err := newClient(apiBase).NewGame(ctx, game.NewGameInput{
				PlayerID:    player,
				CharacterID: character,
				Difficulty:  difficulty,
				Seed:        seed,
			})
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{PlayerID: st.PlayerID, CharacterID: st.CharacterID, Difficulty: st.Difficulty}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("New game %s started.", st.PlayerID))
			renderState(st)
			return nil
		},
	}
	cmd.Flags().StringVar(&difficulty, "difficulty", "normal", "easy, normal or hard")
	cmd.Flags().StringVar(&player, "player", "", "player id (random when empty)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (server default when zero)")
	return cmd
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show the current game",
		Aliases: []string{"dash"},
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, _ []string) error {
			st, err := c.State(ctx, player)
			if err != nil {
				return err
			}
			renderState(st)
			return nil
		}),
	}
}

func newCashFlowCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cashflow",
		Short: "Estimate next month's income and expenses",
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, _ []string) error {
			out, err := c.CashFlow(ctx, player)
			if err != nil {
				return err
			}
			renderCashFlow(out)
			return nil
		}),
	}
}

func newAdvanceCmd(apiBase *string) *cobra.Command {
	var months int
	cmd := &cobra.Command{
		Use:     "advance",
		Short:   "End the month",
		Aliases: []string{"next"},
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, _ []string) error {
			if months <= 1 {
				out, err := c.Advance(ctx, player)
				if err != nil {
					return err
				}
				renderReport(out.Report)
				if out.State.PendingScenario != nil {
					fmt.Println()
					renderScenario(*out.State.PendingScenario)
					printInfo("Answer with `tycoon choose N`.")
				}
				return nil
			}
			out, err := c.Simulate(ctx, player, months)
			if err != nil {
				return err
			}
			first, last := out.Reports[0], out.Reports[len(out.Reports)-1]
			printSuccess(fmt.Sprintf("Simulated %d months.", len(out.Reports)))
			fmt.Printf("Net worth: %s -> %s\n", formatCents(first.NetWorthBefore), formatCents(last.NetWorthAfter))
			renderState(out.State)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&months, "months", "n", 1, "months to advance; more than one auto-resolves decisions")
	return cmd
}

func newChooseCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "choose [option]",
		Short: "Answer the pending life event",
		Args:  cobra.MaximumNArgs(1),
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, args []string) error {
			idx := 0
			if len(args) > 0 {
				n, err := strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil || n < 1 {
					return fmt.Errorf("invalid option %q", args[0])
				}
				idx = n - 1
			} else {
				st, err := c.State(ctx, player)
				if err != nil {
					return err
				}
				if st.PendingScenario == nil {
					printInfo("Nothing to decide right now.")
					return nil
				}
				renderScenario(*st.PendingScenario)
				if idx, err = promptIndex("Option", len(st.PendingScenario.Options)); err != nil {
					return err
				}
			}
			out, err := c.ChooseOption(ctx, player, idx)
			if err != nil {
				return err
			}
			printSuccess(out.Result.Message)
			return nil
		}),
	}
}

func newEnrollCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "enroll [education_id]",
		Short: "Enroll in an education program",
		Args:  cobra.ExactArgs(1),
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, args []string) error {
			st, err := c.Enroll(ctx, player, args[0])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Enrolled. Cash now %s.", formatCents(st.Cash)))
			return nil
		}),
	}
}

func newHustleCmd(apiBase *string) *cobra.Command {
	hustle := &cobra.Command{
		Use:   "hustle",
		Short: "Side hustle commands",
	}
	hustle.AddCommand(&cobra.Command{
		Use:   "start [hustle_id]",
		Short: "Start a side hustle",
		Args:  cobra.ExactArgs(1),
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, args []string) error {
			if _, err := c.StartHustle(ctx, player, args[0]); err != nil {
				return err
			}
			printSuccess("Side hustle started.")
			return nil
		}),
	})
	hustle.AddCommand(&cobra.Command{
		Use:   "stop [hustle_id]",
		Short: "Stop a side hustle",
		Args:  cobra.ExactArgs(1),
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, args []string) error {
			if _, err := c.StopHustle(ctx, player, args[0]); err != nil {
				return err
			}
			printSuccess("Side hustle stopped.")
			return nil
		}),
	})
	hustle.AddCommand(&cobra.Command{
		Use:   "upgrade [hustle_id] [upgrade_id]",
		Short: "Buy a side hustle upgrade",
		Args:  cobra.ExactArgs(2),
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, args []string) error {
			st, err := c.BuyUpgrade(ctx, player, args[0], args[1])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Upgrade bought. Cash now %s.", formatCents(st.Cash)))
			return nil
		}),
	})
	return hustle
}

func newPromoteCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "promote",
		Short: "Ask for a promotion (once a month)",
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, _ []string) error {
			out, err := c.Promote(ctx, player)
			if err != nil {
				return err
			}
			p := out.Promotion
			if !p.Promoted {
				printWarn(fmt.Sprintf("Not this time (%.0f%% chance). Try again next month.", p.Chance*100))
				return nil
			}
			printSuccess(fmt.Sprintf("Promoted to %s at %s/mo with a %s bonus.", p.Title, formatCents(p.Salary), formatCents(p.Bonus)))
			return nil
		}),
	}
}

func newActionCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "action [action_id]",
		Short: "Spend time on a monthly action",
		Args:  cobra.ExactArgs(1),
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, args []string) error {
			if _, err := c.UseAction(ctx, player, args[0]); err != nil {
				return err
			}
			printSuccess("Done.")
			return nil
		}),
	}
}

func newQuestsCmd(apiBase *string) *cobra.Command {
	quests := &cobra.Command{
		Use:   "quests",
		Short: "Show quest progress",
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, _ []string) error {
			out, err := c.Quests(ctx, player)
			if err != nil {
				return err
			}
			renderQuests(out)
			return nil
		}),
	}
	quests.AddCommand(&cobra.Command{
		Use:   "claim [quest_id|all]",
		Short: "Claim quest rewards",
		Args:  cobra.MaximumNArgs(1),
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, args []string) error {
			if len(args) == 0 || strings.EqualFold(args[0], "all") {
				n, err := c.ClaimAllQuests(ctx, player)
				if err != nil {
					return err
				}
				printSuccess(fmt.Sprintf("Claimed %d quest rewards.", n))
				return nil
			}
			ok, err := c.ClaimQuest(ctx, player, args[0])
			if err != nil {
				return err
			}
			if !ok {
				printWarn("That quest is not ready to claim.")
				return nil
			}
			printSuccess("Reward claimed.")
			return nil
		}),
	})
	return quests
}

func newCourseCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "course [course_id]",
		Short: "Take a course quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := activePlayer()
			if err != nil {
				return err
			}
			// the quiz is interactive, so no request deadline spans it
			ctx := cmd.Context()
			c := newClient(apiBase)
			out, err := c.StartCourse(ctx, player, args[0])
			if err != nil {
				return err
			}
			quiz := out.Quiz
			for quiz != nil && quiz.Current < len(quiz.Questions) {
				q := quiz.Questions[quiz.Current]
				accent.Printf("\nQuestion %d of %d\n", quiz.Current+1, len(quiz.Questions))
				fmt.Println(q.Prompt)
				for i, opt := range q.Options {
					fmt.Printf("  %d) %s\n", i+1, opt)
				}
				idx, err := promptIndex("Answer", len(q.Options))
				if err != nil {
					return err
				}
				out, err = c.AnswerQuiz(ctx, player, idx)
				if err != nil {
					return err
				}
				if out.Attempt != nil {
					renderAttempt(*out.Attempt)
					return nil
				}
				quiz = out.Quiz
			}
			return nil
		},
	}
}

func renderAttempt(a game.CourseAttempt) {
	fmt.Printf("\nScore: %d / %d\n", a.Score, a.Total)
	switch {
	case a.Passed && a.RewardGranted:
		printSuccess("Passed and certified. Reward granted.")
	case a.Passed:
		printSuccess("Passed.")
	case a.PenaltyApplied:
		danger.Println("Failed too many times. A penalty was applied.")
		if a.Demoted {
			danger.Println("You were demoted.")
		}
		if a.FeeFinanced > 0 {
			danger.Printf("A %s fee was added to your debts.\n", formatCents(a.FeeFinanced))
		}
	default:
		printWarn(fmt.Sprintf("Failed. Attempts so far: %d.", a.FailedAttempts))
	}
}

func newBuyCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "buy [item_id] [quantity]",
		Short: "Buy a market item",
		Args:  cobra.RangeArgs(1, 2),
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, args []string) error {
			qty, err := quantityArg(args, 1)
			if err != nil {
				return err
			}
			st, err := c.BuyAsset(ctx, player, args[0], qty)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Bought. Cash now %s.", formatCents(st.Cash)))
			return nil
		}),
	}
}

func newSellCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sell [asset_id] [quantity]",
		Short: "Sell an asset (whole position when quantity is omitted)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, args []string) error {
			qty, err := quantityArg(args, 1)
			if err != nil {
				return err
			}
			if len(args) < 2 {
				qty = 0
			}
			out, err := c.SellAsset(ctx, player, args[0], qty)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Sold for %s (gain %s).", formatCents(out.Sale.Proceeds), colorizeCents(out.Sale.Gain)))
			return nil
		}),
	}
}

func newRepayCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "repay [liability_id] [dollars]",
		Short: "Pay extra toward a debt",
		Args:  cobra.ExactArgs(2),
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, args []string) error {
			cents, err := parseDollars(args[1])
			if err != nil {
				return err
			}
			st, err := c.Repay(ctx, player, args[0], cents)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Paid %s. Cash now %s.", formatCents(cents), formatCents(st.Cash)))
			return nil
		}),
	}
}

func newSavesCmd(apiBase *string) *cobra.Command {
	s := &cobra.Command{
		Use:   "saves",
		Short: "Save slot commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			list, err := newClient(apiBase).ListSaves(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No saves yet.")
				return nil
			}
			fmt.Printf("%-20s %-20s %-12s %6s %14s  %s\n", "SLOT", "LABEL", "CHARACTER", "MONTH", "NET WORTH", "UPDATED")
			for _, sum := range list {
				fmt.Printf("%-20s %-20s %-12s %6d %14s  %s\n",
					truncate(sum.SlotID, 20),
					truncate(sum.Label, 20),
					truncate(sum.CharacterID, 12),
					sum.Month,
					formatCents(sum.NetWorth),
					sum.UpdatedAt.Local().Format(time.DateTime),
				)
			}
			return nil
		},
	}
	s.AddCommand(&cobra.Command{
		Use:   "save [slot] [label]",
		Short: "Save the current game",
		Args:  cobra.RangeArgs(1, 2),
		RunE: playerRun(apiBase, func(ctx context.Context, c *cl.Client, player string, args []string) error {
			label := ""
			if len(args) > 1 {
				label = args[1]
			}
			if err := c.SaveGame(ctx, player, args[0], label); err != nil {
				return err
			}
			printSuccess("Saved to " + args[0] + ".")
			return nil
		}),
	})
	s.AddCommand(&cobra.Command{
		Use:   "load [slot]",
		Short: "Load a save as the current game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			player := ""
			if sess, err := cl.LoadSession(); err == nil {
				player = sess.PlayerID
			}
			st, err := newClient(apiBase).LoadSave(ctx, args[0], player)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{PlayerID: st.PlayerID, CharacterID: st.CharacterID, Difficulty: st.Difficulty}); err != nil {
				return err
			}
			renderState(st)
			return nil
		},
	})
	s.AddCommand(&cobra.Command{
		Use:   "rename [slot] [label]",
		Short: "Relabel a save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			if err := newClient(apiBase).RenameSave(ctx, args[0], args[1]); err != nil {
				return err
			}
			printSuccess("Renamed.")
			return nil
		},
	})
	s.AddCommand(&cobra.Command{
		Use:   "delete [slot]",
		Short: "Delete a save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			if err := newClient(apiBase).DeleteSave(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted.")
			return nil
		},
	})
	s.AddCommand(&cobra.Command{
		Use:   "export [slot]",
		Short: "Print a portable save string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			payload, err := newClient(apiBase).ExportSave(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(payload)
			return nil
		},
	})
	s.AddCommand(&cobra.Command{
		Use:   "import [payload] [slot] [label]",
		Short: "Store an exported save string in a slot",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := ""
			if len(args) > 2 {
				label = args[2]
			}
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			if err := newClient(apiBase).ImportSave(ctx, args[0], args[1], label); err != nil {
				return err
			}
			printSuccess("Imported into " + args[1] + ".")
			return nil
		},
	})
	return s
}

func newGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List games played from this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			recent, err := cl.RecentSessions()
			if err != nil {
				return err
			}
			if len(recent) == 0 {
				printInfo("No games yet. Start one with `tycoon new`.")
				return nil
			}
			current := ""
			if sess, err := cl.LoadSession(); err == nil {
				current = sess.PlayerID
			}
			for _, r := range recent {
				marker := " "
				if r.PlayerID == current {
					marker = "*"
				}
				fmt.Printf("%s %-38s %-14s %-8s %s\n", marker, r.PlayerID, r.CharacterID, r.Difficulty, r.UsedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
}

func newSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch [player_id]",
		Short: "Make a remembered game current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cl.SwitchSession(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			printSuccess("Now playing " + s.PlayerID + ".")
			return nil
		},
	}
}

func newQuitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Forget the current game on this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Session cleared.")
			return nil
		},
	}
}

func quantityArg(args []string, idx int) (float64, error) {
	if len(args) <= idx {
		return 1, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(args[idx]), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid quantity %q", args[idx])
	}
	return v, nil
}
