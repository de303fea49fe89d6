package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/llm"
	"github.com/abhisek/guwen/internal/store"
	"github.com/abhisek/guwen/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Draft definitions and keypoints with a language model",
}

var suggestDefinitionsCmd = &cobra.Command{
	Use:   "definitions <char>",
	Short: "Draft senses of a character from the sentences that use it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		char := args[0]

		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, err := newSuggestService(cmd, st, log)
		if err != nil {
			return err
		}

		sentences, err := st.CorpusRepo().SentencesContaining(ctx, char, svc.MaxSentences())
		if err != nil {
			return err
		}
		existing, err := existingDefinitions(cmd, st, char)
		if err != nil {
			return err
		}

		texts := make([]string, len(sentences))
		for i, s := range sentences {
			texts[i] = s.Text
		}
		drafts, err := svc.Definitions(ctx, char, texts, existing)
		if errors.Is(err, suggest.ErrNoInput) {
			return fmt.Errorf("no sentence in the corpus contains %s", char)
		}
		if err != nil {
			return err
		}
		if len(drafts) == 0 {
			fmt.Println("No new senses suggested.")
			return nil
		}

		for i, d := range drafts {
			fmt.Printf("%d. %s\n", i+1, d.Content)
			for _, ex := range d.Examples {
				fmt.Printf("     %s\n", texts[ex])
			}
		}

		save, _ := cmd.Flags().GetBool("save")
		if !save {
			return nil
		}
		withFragments, _ := cmd.Flags().GetBool("fragments")
		repo := st.CorpusRepo()
		for _, d := range drafts {
			ids := make([]string, len(d.Examples))
			for i, ex := range d.Examples {
				ids[i] = sentences[ex].ID
			}
			if _, err := repo.AddDefinition(ctx, char, d.Content, ids); err != nil {
				return fmt.Errorf("save %s: %w", d.Content, err)
			}
			if !withFragments {
				continue
			}
			for _, ex := range d.Examples {
				s := sentences[ex]
				if !corpus.ValidFragmentText(s.Text) {
					continue
				}
				if err := repo.AddFragment(ctx, s.ID, s.Text); err != nil {
					return fmt.Errorf("save fragment %s: %w", s.Text, err)
				}
			}
		}
		fmt.Printf("\nSaved %d definitions.\n", len(drafts))
		return nil
	},
}

var suggestKeypointsCmd = &cobra.Command{
	Use:   "keypoints [file]",
	Short: "Pick weighted exam characters from a passage (reads stdin without a file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var text []byte
		var err error
		if len(args) == 1 {
			text, err = os.ReadFile(args[0])
		} else {
			text, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("read passage: %w", err)
		}

		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, err := newSuggestService(cmd, st, log)
		if err != nil {
			return err
		}
		kps, err := svc.Keypoints(ctx, string(text))
		if errors.Is(err, suggest.ErrNoInput) {
			return errors.New("the passage is empty")
		}
		if err != nil {
			return err
		}
		if len(kps) == 0 {
			fmt.Println("No keypoints suggested.")
			return nil
		}

		fmt.Printf("%-6s  %6s  %s\n", "Char", "Weight", "Reason")
		fmt.Println(strings.Repeat("─", 60))
		for _, kp := range kps {
			fmt.Printf("%-6s  %6d  %s\n", kp.Char, kp.Weight, kp.Reason)
		}

		if apply, _ := cmd.Flags().GetBool("apply"); apply {
			set, err := st.WeightRepo().ReplaceCharacterWeights(ctx, suggest.Weights(kps))
			if err != nil {
				return fmt.Errorf("save weights: %w", err)
			}
			fmt.Printf("\nStored %d character weights; other characters keep %d.\n", set.Len(), set.Other())
		}
		return nil
	},
}

// newSuggestService builds the provider chain from --llm-config, the
// GUWEN_* variables and finally the vendors' own key variables.
func newSuggestService(cmd *cobra.Command, st *store.Store, log *zap.Logger) (*suggest.Service, error) {
	cfg, err := loadLLMConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	provider, err := llm.NewProvider(cmd.Context(), cfg, st.EventRepo(), log)
	if err != nil {
		return nil, err
	}

	scfg := suggest.DefaultConfig()
	f := cmd.Flags()
	if f.Changed("max-drafts") {
		scfg.MaxDrafts, _ = f.GetInt("max-drafts")
	}
	if f.Changed("max-sentences") {
		scfg.MaxSentences, _ = f.GetInt("max-sentences")
	}
	if f.Changed("max-keypoints") {
		scfg.MaxKeypoints, _ = f.GetInt("max-keypoints")
	}
	return suggest.New(provider, scfg, log), nil
}

func loadLLMConfig(cmd *cobra.Command) (llm.Config, error) {
	cfg := llm.ConfigFromEnv()
	if !cfg.HasKey() {
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg = discovered
		}
	}
	path, _ := cmd.Flags().GetString("llm-config")
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read LLM config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse LLM config %s: %w", path, err)
	}
	return cfg, nil
}

func existingDefinitions(cmd *cobra.Command, st *store.Store, char string) ([]string, error) {
	snap, err := st.CorpusRepo().Snapshot(cmd.Context())
	if err != nil {
		return nil, err
	}
	var out []string
	for _, d := range snap.Definitions() {
		if d.Character == char {
			out = append(out, d.Content)
		}
	}
	return out, nil
}

func init() {
	suggestCmd.PersistentFlags().String("llm-config", "", "YAML file with provider settings, applied over the environment")

	suggestDefinitionsCmd.Flags().Bool("save", false, "Store the drafts as definitions linked to their example sentences")
	suggestDefinitionsCmd.Flags().Bool("fragments", false, "With --save, also store short example sentences as fragments")
	suggestDefinitionsCmd.Flags().Int("max-drafts", 0, "Maximum senses to draft")
	suggestDefinitionsCmd.Flags().Int("max-sentences", 0, "Maximum example sentences to send")

	suggestKeypointsCmd.Flags().Bool("apply", false, "Replace the stored character weights with the suggestion")
	suggestKeypointsCmd.Flags().Int("max-keypoints", 0, "Maximum characters to pick")

	suggestCmd.AddCommand(suggestDefinitionsCmd)
	suggestCmd.AddCommand(suggestKeypointsCmd)
}
