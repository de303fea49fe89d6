package corpus

// Snapshot is an immutable in-memory copy of the content store. It owns
// every entity by id; consumers hold ids and read references for the
// duration of one call. Snapshot implements Reader.
type Snapshot struct {
	libraries   []Library
	definitions []Definition
	fragments   []ShortSentence

	linksByDefinition map[string][]Link
	sentences         map[string]Sentence
	articles          map[string]Article
	collections       map[string]Collection
	libraryIndex      map[string]int
}

var _ Reader = (*Snapshot)(nil)

// NewSnapshot indexes the given entities. Slices are retained, not copied;
// callers must not mutate them afterwards.
func NewSnapshot(libraries []Library, definitions []Definition, links []Link, fragments []ShortSentence) *Snapshot {
	s := &Snapshot{
		libraries:         libraries,
		definitions:       definitions,
		fragments:         fragments,
		linksByDefinition: make(map[string][]Link),
		sentences:         make(map[string]Sentence),
		articles:          make(map[string]Article),
		collections:       make(map[string]Collection),
		libraryIndex:      make(map[string]int, len(libraries)),
	}

	for i, lib := range libraries {
		s.libraryIndex[lib.ID] = i
		for _, col := range lib.Collections {
			s.collections[col.ID] = col
			for _, art := range col.Articles {
				s.articles[art.ID] = art
				for _, sen := range art.Sentences {
					s.sentences[sen.ID] = sen
				}
			}
		}
	}

	for _, l := range links {
		s.linksByDefinition[l.DefinitionID] = append(s.linksByDefinition[l.DefinitionID], l)
	}

	return s
}

func (s *Snapshot) Libraries() []Library { return s.libraries }

func (s *Snapshot) Definitions() []Definition { return s.definitions }

func (s *Snapshot) LinksForDefinition(id string) []Link { return s.linksByDefinition[id] }

func (s *Snapshot) ShortSentences() []ShortSentence { return s.fragments }

func (s *Snapshot) SentenceByID(id string) (Sentence, bool) {
	sen, ok := s.sentences[id]
	return sen, ok
}

func (s *Snapshot) ArticleByID(id string) (Article, bool) {
	a, ok := s.articles[id]
	return a, ok
}

func (s *Snapshot) CollectionByID(id string) (Collection, bool) {
	c, ok := s.collections[id]
	return c, ok
}

func (s *Snapshot) LibraryByID(id string) (Library, bool) {
	i, ok := s.libraryIndex[id]
	if !ok {
		return Library{}, false
	}
	return s.libraries[i], true
}
