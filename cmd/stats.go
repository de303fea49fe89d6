package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/guwen/internal/exam"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the corpus holds for an exam configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := examConfigFromFlags(cmd)
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
		d, err := exam.Stats(snap, cfg)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		}
		printDiagnostics(os.Stdout, d)
		return nil
	},
}

func init() {
	addExamFlags(statsCmd)
	statsCmd.Flags().Bool("json", false, "Print as JSON")
}

func printDiagnostics(w io.Writer, d exam.Diagnostics) {
	fmt.Fprintf(w, "Question type:          %s\n", d.QuestionType)
	fmt.Fprintf(w, "Requested:              %d\n", d.Requested)
	fmt.Fprintf(w, "Fragments in scope:     %d\n", d.Fragments)
	fmt.Fprintf(w, "Definitions in scope:   %d\n", d.ScopedDefinitions)
	fmt.Fprintf(w, "Usable definitions:     %d\n", d.UsableDefinitions)
	fmt.Fprintf(w, "Multi-sense characters: %d\n", d.MultiSenseCharacters)
	fmt.Fprintf(w, "Characters with %d+ fragments: %d\n", d.SentencesPerOption, d.QualifyingCharacters)

	if len(d.Suggestions) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Suggestions")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for _, s := range d.Suggestions {
		fmt.Fprintf(w, "  - %s\n", s.Message)
	}
}
