package cmd

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/guwen/internal/exam"
	"github.com/abhisek/guwen/internal/render"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an exam from the corpus",
	Example: `  guwen generate -n 5 --article quanxue
  guwen generate -c exam.yaml --format json --answers
  guwen generate -t different-characters --priority 而,之,其 --random-rate 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		cfg, err := examConfigFromFlags(cmd)
		if err != nil {
			return err
		}

		formatName, _ := cmd.Flags().GetString("format")
		format, err := render.ParseFormat(formatName)
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		cfg, err = applyStoredWeights(ctx, cmd, st, cfg)
		if err != nil {
			return err
		}
		snap, err := st.CorpusRepo().Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("load corpus: %w", err)
		}

		opts := []exam.EngineOption{exam.WithLogger(log)}
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetUint64("seed")
			opts = append(opts, exam.WithRand(rand.New(rand.NewPCG(seed, seed))))
		}

		qs, err := exam.NewEngine(opts...).Generate(snap, cfg)
		var insufficient *exam.InsufficientError
		if errors.As(err, &insufficient) {
			printDiagnostics(os.Stderr, insufficient.Diagnostics)
			return errors.New("no questions could be generated")
		}
		if err != nil {
			return err
		}

		var out io.Writer = os.Stdout
		if path, _ := cmd.Flags().GetString("output"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			out = f
		}

		title, _ := cmd.Flags().GetString("title")
		answers, _ := cmd.Flags().GetBool("answers")
		log.Debug("generated exam", zap.Int("questions", len(qs)), zap.String("format", string(format)))
		return render.Write(out, format, render.Build(title, qs), answers)
	},
}

func init() {
	addExamFlags(generateCmd)
	generateCmd.Flags().StringP("format", "f", "styled", "Output format: text, styled, json or yaml")
	generateCmd.Flags().BoolP("answers", "a", false, "Include the answer key and explanations")
	generateCmd.Flags().String("title", "文言文字词练习", "Exam title")
	generateCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	generateCmd.Flags().Uint64("seed", 0, "Random seed for reproducible exams")
}
