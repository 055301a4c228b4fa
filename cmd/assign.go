package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/store"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Manage instructor assignments",
}

var assignCreateCmd = &cobra.Command{
	Use:   "create <question-id>...",
	Short: "Create an assignment from bank question IDs, in order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()

		id, _ := cmd.Flags().GetString("id")
		if id == "" {
			id = uuid.NewString()[:8]
		}
		title, _ := cmd.Flags().GetString("title")
		moduleFlag, _ := cmd.Flags().GetString("module")
		module := catalog.ModuleID(moduleFlag)
		if !catalog.Valid(module) {
			return fmt.Errorf("unknown module %q", moduleFlag)
		}
		tierFlag, _ := cmd.Flags().GetString("tier")
		tier, err := catalog.ParseTier(tierFlag)
		if err != nil {
			return err
		}

		rec := store.AssignmentRecord{
			ID:           id,
			Title:        title,
			ModuleID:     module,
			QuestionIDs:  args,
			RequiresTier: tier,
		}
		if due, _ := cmd.Flags().GetString("due"); due != "" {
			rec.DueDate, err = time.ParseInLocation(time.DateOnly, due, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --due %q: want YYYY-MM-DD", due)
			}
		}

		if err := e.store.Assignments().Create(cmd.Context(), rec); err != nil {
			return err
		}
		e.log.Info("assignment created", "id", id, "module", module, "questions", len(args))
		fmt.Printf("Assignment %s created with %d questions. Share code: %s\n", title, len(args), id)
		return nil
	},
}

func init() {
	assignCreateCmd.Flags().String("id", "", "Assignment code (generated when empty)")
	assignCreateCmd.Flags().String("title", "Assignment", "Title shown to students")
	assignCreateCmd.Flags().StringP("module", "m", "", "Module the questions belong to")
	assignCreateCmd.Flags().String("due", "", "Due date as YYYY-MM-DD")
	assignCreateCmd.Flags().String("tier", string(catalog.TierAssigned), "Lowest tier allowed to take it")
	_ = assignCreateCmd.MarkFlagRequired("module")

	assignCmd.AddCommand(assignCreateCmd)
}
