package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/guwen/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import libraries, definitions and fragments from YAML or JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		for _, path := range args {
			doc, err := store.LoadDocument(path)
			if err != nil {
				return err
			}
			res, err := st.CorpusRepo().Import(cmd.Context(), doc)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			fmt.Printf("%s: %d libraries, %d collections, %d articles, %d sentences, %d definitions, %d links, %d fragments\n",
				path, res.Libraries, res.Collections, res.Articles, res.Sentences,
				res.Definitions, res.Links, res.Fragments)
		}
		return nil
	},
}
