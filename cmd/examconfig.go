package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/guwen/internal/exam"
	"github.com/abhisek/guwen/internal/store"
)

// addExamFlags registers the flags that build an exam.Config.
func addExamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("config", "c", "", "YAML or JSON file with exam settings; flags override it")
	f.IntP("count", "n", 0, "Number of questions (default 10)")
	f.StringP("type", "t", "", "Question type: same-character or different-characters")
	f.String("answer-type", "", "Presentation: sentence or definition")
	f.String("library", "", "Restrict to a library id")
	f.String("collection", "", "Restrict to a collection id")
	f.String("article", "", "Restrict to an article id")
	f.Bool("include-previous", false, "Also draw from collections and articles before the target")
	f.StringSlice("priority", nil, "Priority characters, sharing the weight left after --random-rate")
	f.Int("random-rate", 0, "Weight kept for characters outside --priority (0-100)")
	f.Int("options", 0, "Options per question (2-4, default 4)")
	f.Int("sentences", 0, "Fragments per option (2-8, default 3)")
	f.String("correct", "", "Force the correct answer label (A-D)")
	f.Bool("ignore-stored-weights", false, "Do not apply weights saved with the weights command")
}

// examConfigFromFlags reads --config, then applies every flag the user set.
func examConfigFromFlags(cmd *cobra.Command) (exam.Config, error) {
	var cfg exam.Config
	f := cmd.Flags()

	if path, _ := f.GetString("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if f.Changed("count") {
		cfg.QuestionCount, _ = f.GetInt("count")
	}
	if f.Changed("type") {
		t, _ := f.GetString("type")
		cfg.QuestionType = exam.QuestionType(t)
	}
	if f.Changed("answer-type") {
		t, _ := f.GetString("answer-type")
		cfg.AnswerType = exam.AnswerType(t)
	}
	if f.Changed("library") {
		cfg.Scope.LibraryID, _ = f.GetString("library")
	}
	if f.Changed("collection") {
		cfg.Scope.CollectionID, _ = f.GetString("collection")
	}
	if f.Changed("article") {
		cfg.Scope.ArticleID, _ = f.GetString("article")
	}
	if f.Changed("include-previous") {
		cfg.IncludePreviousKnowledge, _ = f.GetBool("include-previous")
	}
	if f.Changed("priority") {
		cfg.PriorityCharacters, _ = f.GetStringSlice("priority")
	}
	if f.Changed("random-rate") {
		cfg.RandomRate, _ = f.GetInt("random-rate")
	}
	if f.Changed("options") {
		cfg.OptionsCount, _ = f.GetInt("options")
	}
	if f.Changed("sentences") {
		cfg.SentencesPerOption, _ = f.GetInt("sentences")
	}
	if f.Changed("correct") {
		cfg.CorrectAnswer, _ = f.GetString("correct")
	}
	return cfg, nil
}

// applyStoredWeights merges the saved weights into cfg unless
// --ignore-stored-weights is set.
func applyStoredWeights(ctx context.Context, cmd *cobra.Command, st *store.Store, cfg exam.Config) (exam.Config, error) {
	if ignore, _ := cmd.Flags().GetBool("ignore-stored-weights"); ignore {
		return cfg, nil
	}
	set, err := st.WeightRepo().CharacterWeights(ctx)
	if err != nil {
		return cfg, fmt.Errorf("load character weights: %w", err)
	}
	articles, err := st.WeightRepo().ArticleWeights(ctx)
	if err != nil {
		return cfg, fmt.Errorf("load article weights: %w", err)
	}
	return cfg.WithStoredWeights(set.Weights(), articles), nil
}
