package main

import (
	"context"
	"fmt"
	"os"

	apcli "github.com/algebra-practice/backend/cli"
	"github.com/urfave/cli/v3"
)

func newMigrateCommand(clictx *apcli.Context) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Migrate the database to the latest version",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Println("Migrating the database to the latest version…")
			if err := clictx.Migrate(ctx); err != nil {
				return err
			}

			fmt.Println("✅ Migration complete!")
			return nil
		},
	}
}

func newSetupCommand(clictx *apcli.Context) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup the algebra practice instance",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Println("Setting up the algebra practice instance…")

			result, err := clictx.Setup(ctx)
			if err != nil {
				return err
			}

			fmt.Println("✅ Setup complete!")
			fmt.Println()
			fmt.Printf("Default category: %q (#%d)\n", result.DefaultCategory.Name, result.DefaultCategory.ID)
			fmt.Println()
			fmt.Println("You can then use the following commands to complete the setup:")
			fmt.Println("  - \"seed-questions\" to import questions from a YAML file.")
			fmt.Println()
			fmt.Println("For further migrations, you can use the following commands:")
			fmt.Println("  - \"migrate\" to migrate the database to the latest version.")

			return nil
		},
	}
}

func newSeedQuestionsCommand(clictx *apcli.Context) *cli.Command {
	return &cli.Command{
		Name:        "seed-questions",
		Usage:       "Seed the questions from a YAML file",
		Description: "Seed the questions from a YAML file. It should be a list of `{text, type, choices?, correctChoice?, blankAnswers?, category?, difficulty?}` records. Missing categories are created, and questions whose text already exists in their category are skipped.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "The YAML file to seed the database with questions from.",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			content, err := os.ReadFile(c.String("file"))
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			fmt.Printf("Seeding the database with questions from %q…\n", c.String("file"))

			records, err := apcli.ParseQuestionSeedRecords(content)
			if err != nil {
				return fmt.Errorf("unmarshal question seed records: %w", err)
			}

			created, err := clictx.SeedQuestions(ctx, records)
			if err != nil {
				return err
			}

			fmt.Printf("✅ %d of %d questions seeded!\n", created, len(records))
			return nil
		},
	}
}

func newRegradeCommand(clictx *apcli.Context) *cli.Command {
	return &cli.Command{
		Name:        "regrade",
		Usage:       "Regrade every submission against the current answer keys",
		Description: "Regrade every stored submission. Use it after fixing the answer key of a question.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "List the submissions whose result would change without writing anything.",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Print a summary instead of the interactive progress view.",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("dry-run") {
				changes, err := clictx.PreviewRegrade(ctx)
				if err != nil {
					return err
				}

				for _, change := range changes {
					fmt.Printf("  - submission #%d (question #%d): %v → %v\n",
						change.Submission.ID, change.Submission.QuestionID,
						change.Submission.Correct, change.Correct)
				}
				fmt.Printf("%d submissions would change.\n", len(changes))
				return nil
			}

			if !c.Bool("plain") {
				return clictx.RegradeSubmissionsTUI(ctx)
			}

			summary, err := clictx.RegradeSubmissions(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("✅ Regraded %d submissions: %d changed, %d unchanged, %d failed.\n",
				summary.Total, summary.Changed, summary.Unchanged, summary.Failed)
			if summary.Failed > 0 {
				return fmt.Errorf("%d submissions could not be regraded", summary.Failed)
			}
			return nil
		},
	}
}

func newSanitizeCommand(clictx *apcli.Context) *cli.Command {
	return &cli.Command{
		Name:      "sanitize",
		Usage:     "Clean a LaTeX formula and wrap it in delimiters",
		ArgsUsage: "LATEX",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "display",
				Usage: "The display mode: inline or block.",
				Value: "inline",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one formula, got %d", c.Args().Len())
			}

			sanitized, warnings, err := clictx.Sanitize(c.Args().First(), c.String("display"))
			if err != nil {
				return err
			}

			for _, warning := range warnings {
				fmt.Fprintln(os.Stderr, "⚠️", warning)
			}
			fmt.Println(sanitized)
			return nil
		},
	}
}

func newRootCommand(subcommands ...*cli.Command) *cli.Command {
	return &cli.Command{
		Name:     "admin-cli",
		Usage:    "A CLI tool for managing the algebra practice instance.",
		Commands: subcommands,
	}
}
