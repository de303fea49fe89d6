package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/weight"
)

// WeightRepo persists character and article weights. Character weights
// always pass through a weight.Set, so the stored sum never exceeds 100
// and the other-characters weight stays derived.
type WeightRepo struct {
	mu sync.Mutex
	db *sql.DB
}

// CharacterWeights loads the stored weights into a Set.
func (r *WeightRepo) CharacterWeights(ctx context.Context) (*weight.Set, error) {
	query, args := builder.Select("character", "weight").
		From(builder.Table(CharacterWeightsTable.Name)).
		OrderBy("position", "character").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query character weights: %w", err)
	}
	defer rows.Close()

	var ws []weight.CharacterWeight
	for rows.Next() {
		var w weight.CharacterWeight
		if err := rows.Scan(&w.Char, &w.Weight); err != nil {
			return nil, fmt.Errorf("scan character weight: %w", err)
		}
		ws = append(ws, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return weight.NewSet(ws...)
}

// PutCharacterWeight adds or updates char and returns the weight actually
// stored, which is clamped to what the other characters leave free.
func (r *WeightRepo) PutCharacterWeight(ctx context.Context, char string, w int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, err := r.CharacterWeights(ctx)
	if err != nil {
		return 0, err
	}
	stored, err := set.Put(char, w)
	if err != nil {
		return 0, err
	}
	return stored, r.save(ctx, set)
}

// RemoveCharacterWeight deletes char. It returns ErrNotFound when char has
// no weight.
func (r *WeightRepo) RemoveCharacterWeight(ctx context.Context, char string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, args := builder.Delete(CharacterWeightsTable.Name).
		Where(entsql.EQ("character", char)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete character weight: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("character weight %q: %w", char, ErrNotFound)
	}
	return nil
}

// ReplaceCharacterWeights validates ws as a whole and replaces the stored
// weights with the result.
func (r *WeightRepo) ReplaceCharacterWeights(ctx context.Context, ws []weight.CharacterWeight) (*weight.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, err := weight.NewSet(ws...)
	if err != nil {
		return nil, err
	}
	return set, r.save(ctx, set)
}

func (r *WeightRepo) save(ctx context.Context, set *weight.Set) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, args := builder.Delete(CharacterWeightsTable.Name).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear character weights: %w", err)
	}

	ws := set.Weights()
	if len(ws) > 0 {
		ins := builder.Insert(CharacterWeightsTable.Name).Columns("character", "weight", "position")
		for i, w := range ws {
			ins = ins.Values(w.Char, w.Weight, i)
		}
		query, args = ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save character weights: %w", err)
		}
	}
	return tx.Commit()
}

// ArticleWeights returns all article weight configs. It returns nil when
// none are stored, meaning no article filter.
func (r *WeightRepo) ArticleWeights(ctx context.Context) ([]corpus.ArticleWeight, error) {
	query, args := builder.Select("article_id", "weight", "included").
		From(builder.Table(ArticleWeightsTable.Name)).
		OrderBy("article_id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query article weights: %w", err)
	}
	defer rows.Close()

	var out []corpus.ArticleWeight
	for rows.Next() {
		var aw corpus.ArticleWeight
		if err := rows.Scan(&aw.ArticleID, &aw.Weight, &aw.Included); err != nil {
			return nil, fmt.Errorf("scan article weight: %w", err)
		}
		out = append(out, aw)
	}
	return out, rows.Err()
}

// PutArticleWeight stores aw. The weight must lie in [0, 100].
func (r *WeightRepo) PutArticleWeight(ctx context.Context, aw corpus.ArticleWeight) error {
	if aw.Weight < 0 || aw.Weight > weight.Total {
		return fmt.Errorf("article weight %d out of range [0, %d]", aw.Weight, weight.Total)
	}
	query, args := builder.Insert(ArticleWeightsTable.Name).
		Columns("article_id", "weight", "included").
		Values(aw.ArticleID, aw.Weight, aw.Included).
		OnConflict(entsql.ConflictColumns("article_id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save article weight %s: %w", aw.ArticleID, err)
	}
	return nil
}

// ClearArticleWeights removes every article weight config.
func (r *WeightRepo) ClearArticleWeights(ctx context.Context) error {
	query, args := builder.Delete(ArticleWeightsTable.Name).Query()
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
