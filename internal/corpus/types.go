package corpus

import "time"

// Library is the top of the content hierarchy.
type Library struct {
	ID          string
	Name        string
	Collections []Collection
}

// Collection groups articles inside a library. Order is the position used
// by "include previous knowledge" scoping.
type Collection struct {
	ID        string
	LibraryID string
	Name      string
	Order     int
	Articles  []Article
}

// Article is a single text. Order is its position inside the collection.
type Article struct {
	ID           string
	CollectionID string
	Title        string
	Order        int
	Sentences    []Sentence
}

// Sentence is a long-form sentence of an article.
type Sentence struct {
	ID        string
	ArticleID string
	Index     int
	Text      string
}

// Definition is one gloss (sense) of a character. Several definitions may
// share the same character.
type Definition struct {
	ID        string
	Character string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Link ties a definition to a sentence in which the character is used in
// that sense.
type Link struct {
	ID                string
	DefinitionID      string
	SentenceID        string
	CharacterPosition int
}

// ShortSentence is a short quoted fragment (4-15 graphemes) taken from a
// sentence. Construct new fragments with NewShortSentence.
type ShortSentence struct {
	ID               string
	Text             string
	SourceArticleID  string
	SourceSentenceID string
	CreatedAt        time.Time
}

// Scope narrows the material a question may be drawn from. Empty fields
// mean "no filter".
type Scope struct {
	LibraryID    string `json:"libraryId,omitempty" yaml:"libraryId,omitempty"`
	CollectionID string `json:"collectionId,omitempty" yaml:"collectionId,omitempty"`
	ArticleID    string `json:"articleId,omitempty" yaml:"articleId,omitempty"`
}

// ArticleWeight is a per-article inclusion and intensity override.
type ArticleWeight struct {
	ArticleID string `json:"articleId" yaml:"articleId"`
	Weight    int    `json:"weight" yaml:"weight"`
	Included  bool   `json:"included" yaml:"included"`
}

// Eligible reports whether the article contributes any sentences.
func (w ArticleWeight) Eligible() bool {
	return w.Included && w.Weight > 0
}

// Reader is the read-only view of the content store consumed by the
// generation engine. All lookups return false when the id is unknown.
type Reader interface {
	Libraries() []Library
	Definitions() []Definition
	LinksForDefinition(id string) []Link
	ShortSentences() []ShortSentence
	SentenceByID(id string) (Sentence, bool)
	ArticleByID(id string) (Article, bool)
	CollectionByID(id string) (Collection, bool)
	LibraryByID(id string) (Library, bool)
}
