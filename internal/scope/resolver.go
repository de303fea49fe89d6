// Package scope turns a scope descriptor into the set of eligible
// sentence ids.
package scope

import "github.com/abhisek/guwen/internal/corpus"

// Resolve walks libraries, collections and articles in store order and
// returns the ids of every sentence the scope admits.
//
// Filters apply in this order:
//  1. articleWeights: when non-nil, only articles with an included entry of
//     positive weight are eligible. A non-nil list with no eligible entry
//     yields an empty set.
//  2. library, collection and article ids, exact match.
//  3. includePrevious: collections ordered before the target collection,
//     and articles ordered before the target article inside it, are added
//     in full even though they fail (2). Without a collection id this is a
//     no-op.
func Resolve(r corpus.Reader, s corpus.Scope, includePrevious bool, articleWeights []corpus.ArticleWeight) corpus.SentenceSet {
	out := make(corpus.SentenceSet)

	var eligible map[string]bool
	if articleWeights != nil {
		eligible = make(map[string]bool)
		for _, w := range articleWeights {
			if w.Eligible() {
				eligible[w.ArticleID] = true
			}
		}
		if len(eligible) == 0 {
			return out
		}
	}

	for _, lib := range r.Libraries() {
		if s.LibraryID != "" && lib.ID != s.LibraryID {
			continue
		}

		target, hasTarget := findCollection(lib, s.CollectionID)
		hasTarget = hasTarget && includePrevious

		for _, col := range lib.Collections {
			previousCol := hasTarget && col.Order < target.Order
			if !previousCol && s.CollectionID != "" && col.ID != s.CollectionID {
				continue
			}

			var targetArt *corpus.Article
			if hasTarget && col.ID == target.ID && s.ArticleID != "" {
				targetArt = findArticle(col, s.ArticleID)
			}

			for _, art := range col.Articles {
				if eligible != nil && !eligible[art.ID] {
					continue
				}
				if !previousCol && s.ArticleID != "" && art.ID != s.ArticleID {
					if targetArt == nil || art.Order >= targetArt.Order {
						continue
					}
				}
				for _, sen := range art.Sentences {
					out[sen.ID] = struct{}{}
				}
			}
		}
	}

	return out
}

func findCollection(lib corpus.Library, id string) (corpus.Collection, bool) {
	if id == "" {
		return corpus.Collection{}, false
	}
	for _, c := range lib.Collections {
		if c.ID == id {
			return c, true
		}
	}
	return corpus.Collection{}, false
}

func findArticle(col corpus.Collection, id string) *corpus.Article {
	for i := range col.Articles {
		if col.Articles[i].ID == id {
			return &col.Articles[i]
		}
	}
	return nil
}
