package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <request>",
	Short: "Process a single request and print the reply",
	Long: `Process a single natural-language request and print the reply.

Examples:
  brainsaver ask "find files containing report"
  brainsaver ask "check the status of example.com"
  brainsaver ask "organize my desktop"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		input := strings.Join(args, " ")
		reply, err := a.orch.Process(cmd.Context(), input)
		fmt.Println(reply)
		if err != nil {
			printError("interaction not persisted: %v", err)
		}
		return nil
	},
}

// --- recall ---

var recallCmd = &cobra.Command{
	Use:   "recall [query]",
	Short: "Search past interactions",
	Long: `Search past interactions. Every query term must appear in the stored
input or output. With no query, the most recent interactions are shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		query := strings.Join(args, " ")
		interactions, err := a.retriever.FindRelevant(query, limit)
		if err != nil {
			return err
		}

		if len(interactions) == 0 {
			fmt.Println("No matching interactions found.")
			return nil
		}

		for _, ix := range interactions {
			fmt.Printf("\n%s  %s\n",
				colorize(colorCyan, fmt.Sprintf("#%d", ix.ID)),
				ix.Timestamp.Format(time.RFC3339),
			)
			fmt.Printf("  > %s\n", ix.UserInput)
			output := ix.AgentOutput
			if len(output) > 500 {
				output = output[:500] + "..."
			}
			fmt.Printf("  %s\n", strings.ReplaceAll(output, "\n", "\n  "))
		}
		return nil
	},
}

func init() {
	recallCmd.Flags().Int("limit", 5, "maximum number of results")
}

// --- interactions ---

var interactionsCmd = &cobra.Command{
	Use:   "interactions",
	Short: "Manage interaction history",
}

var interactionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent interactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		interactions, err := a.store.RecentInteractions(limit)
		if err != nil {
			return err
		}

		if len(interactions) == 0 {
			fmt.Println("No interactions found.")
			return nil
		}

		for _, ix := range interactions {
			input := ix.UserInput
			if len(input) > 80 {
				input = input[:80] + "..."
			}
			fmt.Printf("%s  %s  %s\n",
				colorize(colorCyan, fmt.Sprintf("#%d", ix.ID)),
				ix.Timestamp.Format(time.RFC3339),
				input,
			)
		}
		return nil
	},
}

func init() {
	interactionsListCmd.Flags().Int("limit", 20, "maximum number of interactions to list")
	interactionsCmd.AddCommand(interactionsListCmd)
}

// --- prefs ---

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage user preferences",
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		prefs, err := a.store.AllPreferences()
		if err != nil {
			return err
		}
		if len(prefs) == 0 {
			fmt.Println("No preferences set.")
			return nil
		}
		keys := make([]string, 0, len(prefs))
		for key := range prefs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, key), prefs[key])
		}
		return nil
	},
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a preference value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		value, err := a.store.GetPreference(args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a preference value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		key, value := args[0], args[1]
		if err := a.store.SetPreference(key, value); err != nil {
			return err
		}
		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsListCmd)
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
}
