package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/concierge-chat/concierge/internal/knowledge"
	"github.com/concierge-chat/concierge/pkg/app"
)

func kbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage the knowledge seed file",
	}
	cmd.PersistentFlags().StringP("file", "f", "knowledge.yaml", "Path to the seed file")
	cmd.AddCommand(kbAddCmd(), kbListCmd())
	return cmd
}

// kbAddCmd interactively collects a new entry and appends it to the seed
// file. The file is created if it does not exist.
func kbAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add an entry interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("file")

			var (
				category string
				question string
				answer   string
				keywords string
			)

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("Category").
						Options(
							huh.NewOption("FAQ", "faq"),
							huh.NewOption("Onboarding", "onboarding"),
							huh.NewOption("Troubleshooting", "troubleshooting"),
							huh.NewOption("Product", "product"),
						).
						Value(&category),
					huh.NewInput().
						Title("Question").
						Placeholder("How do I reset my password?").
						Value(&question),
					huh.NewText().
						Title("Answer").
						Value(&answer),
					huh.NewInput().
						Title("Keywords (comma separated)").
						Placeholder("password, reset, login").
						Value(&keywords),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			entry := knowledge.NewEntry{
				Category: knowledge.Category(category),
				Question: strings.TrimSpace(question),
				Answer:   strings.TrimSpace(answer),
				Keywords: splitKeywords(keywords),
			}
			if err := entry.Validate(); err != nil {
				return err
			}

			var entries []knowledge.NewEntry
			if _, err := os.Stat(path); err == nil {
				entries, err = app.LoadSeedFile(path)
				if err != nil {
					return err
				}
			}
			entries = append(entries, entry)

			if err := app.SaveSeedFile(path, entries); err != nil {
				return err
			}

			fmt.Printf("Added entry to %s (%d total)\n", path, len(entries))
			return nil
		},
	}
}

func kbListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List entries in the seed file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("file")

			entries, err := app.LoadSeedFile(path)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No entries.")
				return nil
			}

			for i, e := range entries {
				fmt.Printf("%d. [%s] %s\n", i+1, e.Category, e.Question)
				if len(e.Keywords) > 0 {
					fmt.Printf("   keywords: %s\n", strings.Join(e.Keywords, ", "))
				}
			}
			return nil
		},
	}
}

func splitKeywords(raw string) []string {
	var out []string
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
