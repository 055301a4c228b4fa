package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/prepdeck/internal/authoring"
	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/llm"
	"github.com/abhisek/prepdeck/internal/store"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage the question bank",
}

var bankImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import questions from a .yaml or .xlsx bank file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		f, err := bank.Load(args[0])
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		installed, err := e.store.Meta(ctx, store.MetaBankVersion)
		if err != nil {
			return err
		}
		if !force && f.Version != "" {
			if err := bank.CheckUpgrade(installed, f.Version); err != nil {
				return fmt.Errorf("%w (use --force to import anyway)", err)
			}
		}

		stats, err := e.store.Questions().Insert(ctx, store.SourceImport, f.Questions)
		if err != nil {
			return err
		}
		if f.Version != "" {
			if err := e.store.SetMeta(ctx, store.MetaBankVersion, f.Version); err != nil {
				return err
			}
		}
		e.log.Info("bank imported", "file", args[0], "version", f.Version, "inserted", stats.Inserted, "skipped", stats.Skipped)
		fmt.Printf("Imported %d questions (%d already present).\n", stats.Inserted, stats.Skipped)
		return nil
	},
}

var bankDraftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft new questions with the configured LLM",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		moduleFlag, _ := cmd.Flags().GetString("module")
		module := catalog.ModuleID(moduleFlag)
		if !catalog.Valid(module) {
			return fmt.Errorf("unknown module %q", moduleFlag)
		}
		count, _ := cmd.Flags().GetInt("count")
		if count < 1 {
			return fmt.Errorf("--count must be at least 1")
		}
		topic, _ := cmd.Flags().GetString("topic")
		difficulty, _ := cmd.Flags().GetInt("difficulty")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		provider, err := llm.New(ctx, e.cfg.LLMConfig(), e.store.EventRepo(), e.log)
		if err != nil {
			return err
		}
		existing, err := e.store.Questions().Prompts(ctx, module)
		if err != nil {
			return err
		}

		drafter := authoring.New(provider, authoring.DefaultConfig(), e.log)
		batch, err := drafter.DraftMany(ctx, authoring.Input{
			Module:     module,
			Difficulty: difficulty,
			Topic:      topic,
			Existing:   existing,
		}, count)
		if err != nil && len(batch.Accepted) == 0 {
			return err
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "Drafting stopped early:", err)
		}
		for _, r := range batch.Rejected {
			fmt.Fprintln(os.Stderr, "rejected:", r)
		}

		if dryRun {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(bank.File{Questions: batch.Accepted})
		}

		stats, err := e.store.Questions().Insert(ctx, store.SourceDraft, batch.Accepted)
		if err != nil {
			return err
		}
		fmt.Printf("Drafted %d of %d questions for %s.\n", stats.Inserted, count, catalog.DisplayName(module))
		return nil
	},
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show question counts per module",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		counts, err := e.store.Questions().CountByModule(ctx)
		if err != nil {
			return err
		}
		installed, err := e.store.Meta(ctx, store.MetaBankVersion)
		if err != nil {
			return err
		}
		if installed == "" {
			installed = "none"
		}

		fmt.Printf("Bank version: %s\n\n", installed)
		total := 0
		for _, m := range catalog.All() {
			fmt.Printf("%-28s %5d\n", m.Name, counts[m.ID])
			total += counts[m.ID]
		}
		fmt.Printf("%-28s %5d\n", "Total", total)
		return nil
	},
}

func init() {
	bankImportCmd.Flags().Bool("force", false, "Import even if the file is older than the installed bank")

	bankDraftCmd.Flags().StringP("module", "m", "", "Module to draft for (e.g. quantitative-reasoning)")
	bankDraftCmd.Flags().IntP("count", "n", 5, "Number of questions to draft")
	bankDraftCmd.Flags().String("topic", "", "Narrow the drafts to a topic")
	bankDraftCmd.Flags().Int("difficulty", 3, "Difficulty from 1 (easy) to 5 (hard)")
	bankDraftCmd.Flags().Bool("dry-run", false, "Print drafts as YAML instead of storing them")
	_ = bankDraftCmd.MarkFlagRequired("module")

	bankCmd.AddCommand(bankImportCmd)
	bankCmd.AddCommand(bankDraftCmd)
	bankCmd.AddCommand(bankListCmd)
}
