package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/store"
	"github.com/abhisek/guwen/internal/weight"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Manage stored character and article weights",
}

var weightsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List character weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		set, err := st.WeightRepo().CharacterWeights(cmd.Context())
		if err != nil {
			return err
		}
		printWeights(set)
		return nil
	},
}

var weightsSetCmd = &cobra.Command{
	Use:   "set <char> <weight>",
	Short: "Add or update a character weight",
	Long: "Add or update a character weight. The weight is clamped so that all " +
		"character weights together never exceed 100.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := strconv.Atoi(args[1])
		if err != nil || w < 0 || w > weight.Total {
			return fmt.Errorf("weight must be an integer in [0, %d], got %q", weight.Total, args[1])
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		applied, err := st.WeightRepo().PutCharacterWeight(cmd.Context(), args[0], w)
		if err != nil {
			return err
		}
		if applied < w {
			fmt.Printf("%s: %d (clamped from %d)\n", args[0], applied, w)
		} else {
			fmt.Printf("%s: %d\n", args[0], applied)
		}
		return nil
	},
}

var weightsRemoveCmd = &cobra.Command{
	Use:     "remove <char>",
	Aliases: []string{"rm"},
	Short:   "Remove a character weight",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		err = st.WeightRepo().RemoveCharacterWeight(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%s has no weight", args[0])
		}
		return err
	},
}

var weightsLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Replace all character weights with a YAML or JSON list",
	Long: "Replace all character weights with a list of {char, weight} entries. " +
		"Entries are applied in order and later ones are clamped to what is left.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var ws []weight.CharacterWeight
		if err := yaml.Unmarshal(data, &ws); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		set, err := st.WeightRepo().ReplaceCharacterWeights(cmd.Context(), ws)
		if err != nil {
			return err
		}
		printWeights(set)
		return nil
	},
}

var weightsArticleCmd = &cobra.Command{
	Use:   "article",
	Short: "Manage per-article inclusion and weight",
}

var weightsArticleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List article weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		aws, err := st.WeightRepo().ArticleWeights(cmd.Context())
		if err != nil {
			return err
		}
		if len(aws) == 0 {
			fmt.Println("No article weights set; every article is eligible.")
			return nil
		}
		fmt.Printf("%-24s  %6s  %s\n", "Article", "Weight", "Included")
		fmt.Println(strings.Repeat("─", 44))
		for _, aw := range aws {
			fmt.Printf("%-24s  %6d  %v\n", aw.ArticleID, aw.Weight, aw.Included)
		}
		return nil
	},
}

var weightsArticleSetCmd = &cobra.Command{
	Use:   "set <article-id> <weight>",
	Short: "Set an article weight",
	Long: "Set an article weight. Once any article weight is stored, only included " +
		"articles with a positive weight are eligible for generation.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid weight %q: %w", args[1], err)
		}
		exclude, _ := cmd.Flags().GetBool("exclude")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		return st.WeightRepo().PutArticleWeight(cmd.Context(), corpus.ArticleWeight{
			ArticleID: args[0],
			Weight:    w,
			Included:  !exclude,
		})
	},
}

var weightsArticleClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every article weight",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		return st.WeightRepo().ClearArticleWeights(cmd.Context())
	},
}

func printWeights(set *weight.Set) {
	if set.Len() == 0 {
		fmt.Println("No character weights set.")
		return
	}
	fmt.Printf("%-6s  %6s\n", "Char", "Weight")
	fmt.Println(strings.Repeat("─", 16))
	for _, w := range set.Weights() {
		fmt.Printf("%-6s  %6d\n", w.Char, w.Weight)
	}
	fmt.Println(strings.Repeat("─", 16))
	fmt.Printf("%-6s  %6d\n", "other", set.Other())
}

func init() {
	weightsArticleSetCmd.Flags().Bool("exclude", false, "Store the article as excluded")

	weightsArticleCmd.AddCommand(weightsArticleListCmd)
	weightsArticleCmd.AddCommand(weightsArticleSetCmd)
	weightsArticleCmd.AddCommand(weightsArticleClearCmd)

	weightsCmd.AddCommand(weightsListCmd)
	weightsCmd.AddCommand(weightsSetCmd)
	weightsCmd.AddCommand(weightsRemoveCmd)
	weightsCmd.AddCommand(weightsLoadCmd)
	weightsCmd.AddCommand(weightsArticleCmd)
}
