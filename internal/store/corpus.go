package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/guwen/internal/corpus"
)

// CorpusRepo reads and writes the library hierarchy, definitions, links
// and fragments.
type CorpusRepo struct {
	db *sql.DB
}

// ImportResult counts the rows written by Import.
type ImportResult struct {
	Libraries   int
	Collections int
	Articles    int
	Sentences   int
	Definitions int
	Links       int
	Fragments   int
}

// Import writes doc in one transaction. Entities with an existing id are
// updated. A definition with the same character and content as an
// existing one is reused. Fragments whose text already exists are skipped.
func (r *CorpusRepo) Import(ctx context.Context, doc *Document) (*ImportResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	imp := &importer{tx: tx, now: time.Now().UTC(), articles: make(map[string]string), res: &ImportResult{}}
	for i, lib := range doc.Libraries {
		if err := imp.library(ctx, lib, i); err != nil {
			return nil, err
		}
	}
	for _, def := range doc.Definitions {
		if err := imp.definition(ctx, def); err != nil {
			return nil, err
		}
	}
	for _, f := range doc.Fragments {
		if err := imp.fragment(ctx, f); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return imp.res, nil
}

type importer struct {
	tx  *sql.Tx
	now time.Time
	// articles maps titles and ids seen in this document to article ids.
	articles map[string]string
	res      *ImportResult
}

func idOrNew(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func (imp *importer) exec(ctx context.Context, query string, args []any) error {
	_, err := imp.tx.ExecContext(ctx, query, args...)
	return err
}

func (imp *importer) library(ctx context.Context, lib LibraryDoc, pos int) error {
	id := idOrNew(lib.ID)
	query, args := builder.Insert(LibrariesTable.Name).
		Columns("id", "name", "position").
		Values(id, lib.Name, pos).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if err := imp.exec(ctx, query, args); err != nil {
		return fmt.Errorf("save library %q: %w", lib.Name, err)
	}
	imp.res.Libraries++

	for i, col := range lib.Collections {
		if err := imp.collection(ctx, id, col, i); err != nil {
			return err
		}
	}
	return nil
}

func (imp *importer) collection(ctx context.Context, libraryID string, col CollectionDoc, pos int) error {
	id := idOrNew(col.ID)
	query, args := builder.Insert(CollectionsTable.Name).
		Columns("id", "library_id", "name", "position").
		Values(id, libraryID, col.Name, pos).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if err := imp.exec(ctx, query, args); err != nil {
		return fmt.Errorf("save collection %q: %w", col.Name, err)
	}
	imp.res.Collections++

	for i, art := range col.Articles {
		if err := imp.article(ctx, id, art, i); err != nil {
			return err
		}
	}
	return nil
}

func (imp *importer) article(ctx context.Context, collectionID string, art ArticleDoc, pos int) error {
	id := idOrNew(art.ID)
	query, args := builder.Insert(ArticlesTable.Name).
		Columns("id", "collection_id", "title", "position").
		Values(id, collectionID, art.Title, pos).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if err := imp.exec(ctx, query, args); err != nil {
		return fmt.Errorf("save article %q: %w", art.Title, err)
	}
	imp.res.Articles++
	imp.articles[id] = id
	if art.Title != "" {
		imp.articles[art.Title] = id
	}

	if len(art.Sentences) == 0 {
		return nil
	}
	ins := builder.Insert(SentencesTable.Name).
		Columns("id", "article_id", "idx", "text").
		OnConflict(
			entsql.ConflictColumns("article_id", "idx"),
			// Keep the existing id so links stay valid.
			entsql.ResolveWith(func(u *entsql.UpdateSet) { u.SetExcluded("text") }),
		)
	for i, text := range art.Sentences {
		ins = ins.Values(uuid.NewString(), id, i, strings.TrimSpace(text))
	}
	query, args = ins.Query()
	if err := imp.exec(ctx, query, args); err != nil {
		return fmt.Errorf("save sentences of %q: %w", art.Title, err)
	}
	imp.res.Sentences += len(art.Sentences)
	return nil
}

// articleID resolves ref against this document first, then the database.
func (imp *importer) articleID(ctx context.Context, ref string) (string, error) {
	if id, ok := imp.articles[ref]; ok {
		return id, nil
	}
	query, args := builder.Select("id").
		From(builder.Table(ArticlesTable.Name)).
		Where(entsql.Or(entsql.EQ("id", ref), entsql.EQ("title", ref))).
		Limit(1).
		Query()
	var id string
	err := imp.tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("article %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("lookup article %q: %w", ref, err)
	}
	imp.articles[ref] = id
	return id, nil
}

// sentence finds a sentence of articleID by index, or else the first one
// containing text.
func (imp *importer) sentence(ctx context.Context, articleID string, index *int, text string) (corpus.Sentence, error) {
	sel := builder.Select("id", "article_id", "idx", "text").
		From(builder.Table(SentencesTable.Name)).
		Where(entsql.EQ("article_id", articleID)).
		OrderBy("idx")
	switch {
	case index != nil:
		sel = sel.Where(entsql.EQ("idx", *index))
	case text != "":
		sel = sel.Where(entsql.Contains("text", text))
	default:
		return corpus.Sentence{}, fmt.Errorf("sentence reference in %s needs an index or text", articleID)
	}
	query, args := sel.Limit(1).Query()

	var s corpus.Sentence
	err := imp.tx.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.ArticleID, &s.Index, &s.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("sentence in article %s: %w", articleID, ErrNotFound)
	}
	return s, err
}

func (imp *importer) definition(ctx context.Context, def DefinitionDoc) error {
	if !corpus.IsSingleGrapheme(def.Character) {
		return fmt.Errorf("definition %q: character %q must be a single character", def.Content, def.Character)
	}
	id, created, err := ensureDefinition(ctx, imp.tx, def.Character, def.Content, imp.now)
	if err != nil {
		return err
	}
	if created {
		imp.res.Definitions++
	}

	for _, ex := range def.Examples {
		artID, err := imp.articleID(ctx, ex.Article)
		if err != nil {
			return fmt.Errorf("definition %s/%s: %w", def.Character, def.Content, err)
		}
		s, err := imp.sentence(ctx, artID, ex.Sentence, ex.Contains)
		if err != nil {
			return fmt.Errorf("definition %s/%s: %w", def.Character, def.Content, err)
		}
		n, err := insertLink(ctx, imp.tx, id, s, def.Character)
		if err != nil {
			return err
		}
		imp.res.Links += n
	}
	return nil
}

func (imp *importer) fragment(ctx context.Context, f FragmentDoc) error {
	artID, err := imp.articleID(ctx, f.Article)
	if err != nil {
		return fmt.Errorf("fragment %q: %w", f.Text, err)
	}
	s, err := imp.sentence(ctx, artID, f.Sentence, f.Text)
	if err != nil {
		return fmt.Errorf("fragment %q: %w", f.Text, err)
	}
	n, err := insertFragment(ctx, imp.tx, f.Text, s, imp.now)
	if err != nil {
		return err
	}
	imp.res.Fragments += n
	return nil
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ensureDefinition returns the id of the definition (char, content),
// creating it if needed.
func ensureDefinition(ctx context.Context, q execQuerier, char, content string, now time.Time) (string, bool, error) {
	query, args := builder.Select("id").
		From(builder.Table(DefinitionsTable.Name)).
		Where(entsql.And(entsql.EQ("character", char), entsql.EQ("content", content))).
		Query()
	var id string
	err := q.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("lookup definition %s/%s: %w", char, content, err)
	}

	id = uuid.NewString()
	query, args = builder.Insert(DefinitionsTable.Name).
		Columns("id", "character", "content", "created_at", "updated_at").
		Values(id, char, content, now, now).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return "", false, fmt.Errorf("save definition %s/%s: %w", char, content, err)
	}
	return id, true, nil
}

// insertLink ties definitionID to s. It reports 0 when the link exists.
func insertLink(ctx context.Context, q execQuerier, definitionID string, s corpus.Sentence, char string) (int, error) {
	pos := -1
	if i := strings.Index(s.Text, char); i >= 0 {
		pos = utf8.RuneCountInString(s.Text[:i])
	}
	query, args := builder.Insert(LinksTable.Name).
		Columns("id", "definition_id", "sentence_id", "character_position").
		Values(uuid.NewString(), definitionID, s.ID, pos).
		OnConflict(entsql.ConflictColumns("definition_id", "sentence_id"), entsql.DoNothing()).
		Query()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("save link: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// insertFragment validates and stores a fragment of s. It reports 0 when
// a fragment with the same text exists.
func insertFragment(ctx context.Context, q execQuerier, text string, s corpus.Sentence, now time.Time) (int, error) {
	f, err := corpus.NewShortSentence(uuid.NewString(), text, s.ArticleID, s.ID, now)
	if err != nil {
		return 0, err
	}
	query, args := builder.Insert(ShortSentencesTable.Name).
		Columns("id", "text", "source_article_id", "source_sentence_id", "created_at").
		Values(f.ID, f.Text, f.SourceArticleID, f.SourceSentenceID, f.CreatedAt).
		OnConflict(entsql.ConflictColumns("text"), entsql.DoNothing()).
		Query()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("save fragment %q: %w", text, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// AddDefinition stores a definition of char linked to sentenceIDs and
// returns its id. An existing definition with the same content is reused.
func (r *CorpusRepo) AddDefinition(ctx context.Context, char, content string, sentenceIDs []string) (string, error) {
	if !corpus.IsSingleGrapheme(char) {
		return "", fmt.Errorf("character %q must be a single character", char)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id, _, err := ensureDefinition(ctx, tx, char, content, time.Now().UTC())
	if err != nil {
		return "", err
	}
	for _, sid := range sentenceIDs {
		s, err := sentenceByID(ctx, tx, sid)
		if err != nil {
			return "", err
		}
		if _, err := insertLink(ctx, tx, id, s, char); err != nil {
			return "", err
		}
	}
	return id, tx.Commit()
}

// AddFragment stores text as a fragment of sentenceID.
func (r *CorpusRepo) AddFragment(ctx context.Context, sentenceID, text string) error {
	s, err := sentenceByID(ctx, r.db, sentenceID)
	if err != nil {
		return err
	}
	_, err = insertFragment(ctx, r.db, text, s, time.Now().UTC())
	return err
}

func sentenceByID(ctx context.Context, q execQuerier, id string) (corpus.Sentence, error) {
	query, args := builder.Select("id", "article_id", "idx", "text").
		From(builder.Table(SentencesTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()
	var s corpus.Sentence
	err := q.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.ArticleID, &s.Index, &s.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("sentence %s: %w", id, ErrNotFound)
	}
	return s, err
}

// SentencesContaining returns up to limit sentences whose text contains
// char, in store order.
func (r *CorpusRepo) SentencesContaining(ctx context.Context, char string, limit int) ([]corpus.Sentence, error) {
	sel := builder.Select("id", "article_id", "idx", "text").
		From(builder.Table(SentencesTable.Name)).
		Where(entsql.Contains("text", char)).
		OrderBy("article_id", "idx")
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sentences: %w", err)
	}
	defer rows.Close()

	var out []corpus.Sentence
	for rows.Next() {
		var s corpus.Sentence
		if err := rows.Scan(&s.ID, &s.ArticleID, &s.Index, &s.Text); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
