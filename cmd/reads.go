package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdeck/internal/advice"
	"github.com/abhisek/prepdeck/internal/catalog"
	lb "github.com/abhisek/prepdeck/internal/leaderboard"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List your stored results, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()

		user, err := currentUser(cmd)
		if err != nil {
			return err
		}
		results, err := e.results.ListByUser(cmd.Context(), user)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(results)
		}
		if len(results) == 0 {
			fmt.Println("No results yet.")
			return nil
		}

		fmt.Printf("%-16s  %-16s  %-28s  %7s  %6s\n", "When", "Mode", "Module", "Score", "Acc")
		fmt.Println(strings.Repeat("─", 82))
		for i := len(results) - 1; i >= 0; i-- {
			r := results[i]
			score := fmt.Sprintf("%d/%d", r.Score, r.TotalQuestions)
			if r.IsPartial {
				score += "*"
			}
			fmt.Printf("%-16s  %-16s  %-28s  %7s  %5.0f%%\n",
				r.CompletedAt.Local().Format("2006-01-02 15:04"),
				r.Mode,
				catalog.DisplayName(r.ModuleID),
				score,
				r.Accuracy(),
			)
		}
		fmt.Println("\n* partial: exited before the module ended")
		return nil
	},
}

var adviceCmd = &cobra.Command{
	Use:   "advice",
	Short: "Show your strongest and weakest modules and what to study next",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()

		user, err := currentUser(cmd)
		if err != nil {
			return err
		}
		results, err := e.results.ListByUser(cmd.Context(), user)
		if err != nil {
			return err
		}
		a := advice.New(e.cfg.Advice.Multiplier).Analyze(results)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(a)
		}

		fmt.Printf("Status:     %s\n", a.Status)
		if a.HasData() {
			fmt.Printf("Strongest:  %s (%.1f%%)\n", a.Strength.Name, a.Strength.Value)
			fmt.Printf("Focus:      %s (%.1f%%)\n", a.Critical.Name, a.Critical.Value)
			fmt.Printf("Mean:       %.1f%%\n", a.MeanAccuracy)
			fmt.Printf("Projected:  %.0f\n", a.ProjectedScore)
		}
		fmt.Println()
		fmt.Println(a.Advice)
		fmt.Println(a.ActionStep)
		fmt.Printf("\nNext up: %s\n", catalog.DisplayName(a.NextModule))
		return nil
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()

		user, err := currentUser(cmd)
		if err != nil {
			return err
		}
		reference, err := e.reference()
		if err != nil {
			return err
		}
		results, err := e.results.ListAll(cmd.Context())
		if err != nil {
			return err
		}
		board := lb.Board(reference, results, time.Now())

		limit, _ := cmd.Flags().GetInt("limit")
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(board)
		}

		fmt.Printf("%4s  %-24s  %7s  %6s\n", "#", "Name", "Points", "Streak")
		fmt.Println(strings.Repeat("─", 48))
		for _, en := range board {
			if limit > 0 && en.Rank > limit && en.UserID != user {
				continue
			}
			marker := " "
			if en.UserID == user {
				marker = ">"
			}
			fmt.Printf("%s%3d  %-24s  %7d  %6d\n", marker, en.Rank, en.DisplayName, en.Points, en.Streak)
		}
		if me, ok := lb.Find(board, user); ok {
			fmt.Printf("\nYou are #%d of %d with %d points.\n", me.Rank, len(board), me.Points)
		} else {
			fmt.Println("\nFinish a session to join the board.")
		}
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	resultsCmd.Flags().Bool("json", false, "Print as JSON")
	adviceCmd.Flags().Bool("json", false, "Print as JSON")
	leaderboardCmd.Flags().Bool("json", false, "Print as JSON")
	leaderboardCmd.Flags().IntP("limit", "n", 20, "Rows to show (your row is always shown)")
}
