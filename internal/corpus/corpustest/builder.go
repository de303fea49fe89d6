// Package corpustest builds in-memory corpora for tests.
package corpustest

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/guwen/internal/corpus"
)

// Builder accumulates entities and assembles them into a Snapshot.
// Ids are generated sequentially unless given explicitly.
type Builder struct {
	libraries   []corpus.Library
	collections []corpus.Collection
	articles    []corpus.Article
	sentences   []corpus.Sentence
	definitions []corpus.Definition
	links       []corpus.Link
	fragments   []corpus.ShortSentence
	seq         int
	now         time.Time
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (b *Builder) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s%d", prefix, b.seq)
}

// Library adds a library with the given id.
func (b *Builder) Library(id string) string {
	b.libraries = append(b.libraries, corpus.Library{ID: id, Name: id})
	return id
}

// Collection adds a collection to libraryID.
func (b *Builder) Collection(libraryID, id string, order int) string {
	b.collections = append(b.collections, corpus.Collection{ID: id, LibraryID: libraryID, Name: id, Order: order})
	return id
}

// Article adds an article to collectionID.
func (b *Builder) Article(collectionID, id string, order int) string {
	b.articles = append(b.articles, corpus.Article{ID: id, CollectionID: collectionID, Title: id, Order: order})
	return id
}

// Sentence adds a sentence to articleID and returns its id.
func (b *Builder) Sentence(articleID, text string) string {
	idx := 0
	for _, s := range b.sentences {
		if s.ArticleID == articleID {
			idx++
		}
	}
	id := b.nextID("s")
	b.sentences = append(b.sentences, corpus.Sentence{ID: id, ArticleID: articleID, Index: idx, Text: text})
	return id
}

// Definition adds a definition and returns its id.
func (b *Builder) Definition(char, content string) string {
	id := b.nextID("d")
	b.definitions = append(b.definitions, corpus.Definition{
		ID: id, Character: char, Content: content, CreatedAt: b.now, UpdatedAt: b.now,
	})
	return id
}

// Link ties definitionID to sentenceID.
func (b *Builder) Link(definitionID, sentenceID string) {
	pos := 0
	for _, s := range b.sentences {
		if s.ID != sentenceID {
			continue
		}
		for _, d := range b.definitions {
			if d.ID == definitionID {
				pos = strings.Index(s.Text, d.Character)
			}
		}
	}
	b.links = append(b.links, corpus.Link{
		ID: b.nextID("l"), DefinitionID: definitionID, SentenceID: sentenceID, CharacterPosition: pos,
	})
}

// Fragment adds a fragment sourced from sentenceID and returns its id. It
// panics on invalid fragment text so fixtures fail loudly.
func (b *Builder) Fragment(sentenceID, text string) string {
	articleID := ""
	for _, s := range b.sentences {
		if s.ID == sentenceID {
			articleID = s.ArticleID
		}
	}
	f, err := corpus.NewShortSentence(b.nextID("f"), text, articleID, sentenceID, b.now)
	if err != nil {
		panic(err)
	}
	b.fragments = append(b.fragments, f)
	return f.ID
}

// Example adds a sentence to articleID, links it to definitionID and adds
// a fragment equal to the sentence text. It returns the fragment id.
func (b *Builder) Example(articleID, definitionID, text string) string {
	sid := b.Sentence(articleID, text)
	b.Link(definitionID, sid)
	return b.Fragment(sid, text)
}

// Snapshot assembles the hierarchy in insertion order.
func (b *Builder) Snapshot() *corpus.Snapshot {
	articles := make([]corpus.Article, len(b.articles))
	copy(articles, b.articles)
	for i := range articles {
		for _, s := range b.sentences {
			if s.ArticleID == articles[i].ID {
				articles[i].Sentences = append(articles[i].Sentences, s)
			}
		}
	}

	collections := make([]corpus.Collection, len(b.collections))
	copy(collections, b.collections)
	for i := range collections {
		for _, a := range articles {
			if a.CollectionID == collections[i].ID {
				collections[i].Articles = append(collections[i].Articles, a)
			}
		}
	}

	libraries := make([]corpus.Library, len(b.libraries))
	copy(libraries, b.libraries)
	for i := range libraries {
		for _, c := range collections {
			if c.LibraryID == libraries[i].ID {
				libraries[i].Collections = append(libraries[i].Collections, c)
			}
		}
	}

	return corpus.NewSnapshot(libraries, b.definitions, b.links, b.fragments)
}
