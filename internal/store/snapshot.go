package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abhisek/guwen/internal/corpus"
)

// Snapshot loads the whole corpus into an immutable in-memory reader.
// Libraries, collections and articles keep their stored order.
func (r *CorpusRepo) Snapshot(ctx context.Context) (*corpus.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	var libs []corpus.Library
	err = queryRows(ctx, tx, builder.Select("id", "name", "position").
		From(builder.Table(LibrariesTable.Name)).
		OrderBy("position", "id").
		Query,
		func(rows *sql.Rows) error {
			var l corpus.Library
			var pos int
			if err := rows.Scan(&l.ID, &l.Name, &pos); err != nil {
				return err
			}
			libs = append(libs, l)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load libraries: %w", err)
	}

	var cols []corpus.Collection
	err = queryRows(ctx, tx, builder.Select("id", "library_id", "name", "position").
		From(builder.Table(CollectionsTable.Name)).
		OrderBy("position", "id").
		Query,
		func(rows *sql.Rows) error {
			var c corpus.Collection
			if err := rows.Scan(&c.ID, &c.LibraryID, &c.Name, &c.Order); err != nil {
				return err
			}
			cols = append(cols, c)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}

	var arts []corpus.Article
	err = queryRows(ctx, tx, builder.Select("id", "collection_id", "title", "position").
		From(builder.Table(ArticlesTable.Name)).
		OrderBy("position", "id").
		Query,
		func(rows *sql.Rows) error {
			var a corpus.Article
			if err := rows.Scan(&a.ID, &a.CollectionID, &a.Title, &a.Order); err != nil {
				return err
			}
			arts = append(arts, a)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}

	sentences := make(map[string][]corpus.Sentence)
	err = queryRows(ctx, tx, builder.Select("id", "article_id", "idx", "text").
		From(builder.Table(SentencesTable.Name)).
		OrderBy("article_id", "idx").
		Query,
		func(rows *sql.Rows) error {
			var s corpus.Sentence
			if err := rows.Scan(&s.ID, &s.ArticleID, &s.Index, &s.Text); err != nil {
				return err
			}
			sentences[s.ArticleID] = append(sentences[s.ArticleID], s)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load sentences: %w", err)
	}

	var defs []corpus.Definition
	err = queryRows(ctx, tx, builder.Select("id", "character", "content", "created_at", "updated_at").
		From(builder.Table(DefinitionsTable.Name)).
		OrderBy("character", "created_at", "id").
		Query,
		func(rows *sql.Rows) error {
			var d corpus.Definition
			if err := rows.Scan(&d.ID, &d.Character, &d.Content, &d.CreatedAt, &d.UpdatedAt); err != nil {
				return err
			}
			defs = append(defs, d)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}

	var links []corpus.Link
	err = queryRows(ctx, tx, builder.Select("id", "definition_id", "sentence_id", "character_position").
		From(builder.Table(LinksTable.Name)).
		OrderBy("id").
		Query,
		func(rows *sql.Rows) error {
			var l corpus.Link
			if err := rows.Scan(&l.ID, &l.DefinitionID, &l.SentenceID, &l.CharacterPosition); err != nil {
				return err
			}
			links = append(links, l)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}

	var frags []corpus.ShortSentence
	err = queryRows(ctx, tx, builder.Select("id", "text", "source_article_id", "source_sentence_id", "created_at").
		From(builder.Table(ShortSentencesTable.Name)).
		OrderBy("created_at", "id").
		Query,
		func(rows *sql.Rows) error {
			var f corpus.ShortSentence
			if err := rows.Scan(&f.ID, &f.Text, &f.SourceArticleID, &f.SourceSentenceID, &f.CreatedAt); err != nil {
				return err
			}
			frags = append(frags, f)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load fragments: %w", err)
	}

	for i := range arts {
		arts[i].Sentences = sentences[arts[i].ID]
	}
	for i := range cols {
		for _, a := range arts {
			if a.CollectionID == cols[i].ID {
				cols[i].Articles = append(cols[i].Articles, a)
			}
		}
	}
	for i := range libs {
		for _, c := range cols {
			if c.LibraryID == libs[i].ID {
				libs[i].Collections = append(libs[i].Collections, c)
			}
		}
	}

	return corpus.NewSnapshot(libs, defs, links, frags), nil
}

// queryRows runs the query built by build and calls fn for every row.
func queryRows(ctx context.Context, tx *sql.Tx, build func() (string, []any), fn func(*sql.Rows) error) error {
	query, args := build()
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
