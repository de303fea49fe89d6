package corpus

import (
	"sort"
	"strings"
)

// SentenceSet is a set of sentence ids, the output of scope resolution.
type SentenceSet map[string]struct{}

// NewSentenceSet builds a set from ids.
func NewSentenceSet(ids ...string) SentenceSet {
	s := make(SentenceSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s SentenceSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// DefinitionsWithExamples keeps definitions that have at least one link,
// regardless of scope.
func DefinitionsWithExamples(r Reader, defs []Definition) []Definition {
	var out []Definition
	for _, d := range defs {
		if len(r.LinksForDefinition(d.ID)) > 0 {
			out = append(out, d)
		}
	}
	return out
}

// DefinitionsInScope keeps definitions with at least one link pointing at a
// sentence in ids.
func DefinitionsInScope(r Reader, defs []Definition, ids SentenceSet) []Definition {
	var out []Definition
	for _, d := range defs {
		for _, l := range r.LinksForDefinition(d.ID) {
			if ids.Has(l.SentenceID) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// FragmentsInScope keeps fragments whose source sentence is in ids.
func FragmentsInScope(r Reader, ids SentenceSet) []ShortSentence {
	var out []ShortSentence
	for _, f := range r.ShortSentences() {
		if ids.Has(f.SourceSentenceID) {
			out = append(out, f)
		}
	}
	return out
}

// Group aggregates one character's usable in-scope definitions and the
// in-scope fragments containing it.
type Group struct {
	Character   string
	Definitions []Definition
	Fragments   []ShortSentence
}

// Qualifies reports whether the group has enough fragments to fill one
// option of sentencesPerOption fragments.
func (g *Group) Qualifies(sentencesPerOption int) bool {
	return len(g.Fragments) >= sentencesPerOption
}

// Index is the per-call view of the corpus restricted to a scope.
type Index struct {
	reader    Reader
	sentences SentenceSet

	usable    []Definition
	inScope   []Definition
	fragments []ShortSentence

	groups     map[string]*Group
	characters []string

	linkedIDs   map[string]SentenceSet
	linkedTexts map[string][]string
}

// NewIndex derives the scoped aggregates from r.
func NewIndex(r Reader, sentences SentenceSet) *Index {
	idx := &Index{
		reader:      r,
		sentences:   sentences,
		groups:      make(map[string]*Group),
		linkedIDs:   make(map[string]SentenceSet),
		linkedTexts: make(map[string][]string),
	}

	idx.usable = DefinitionsWithExamples(r, r.Definitions())
	idx.inScope = DefinitionsInScope(r, idx.usable, sentences)
	idx.fragments = FragmentsInScope(r, sentences)

	for _, d := range idx.usable {
		ids := make(SentenceSet)
		var texts []string
		for _, l := range r.LinksForDefinition(d.ID) {
			ids[l.SentenceID] = struct{}{}
			if sen, ok := r.SentenceByID(l.SentenceID); ok {
				texts = append(texts, sen.Text)
			}
		}
		idx.linkedIDs[d.ID] = ids
		idx.linkedTexts[d.ID] = texts
	}

	for _, d := range idx.inScope {
		g, ok := idx.groups[d.Character]
		if !ok {
			g = &Group{Character: d.Character}
			idx.groups[d.Character] = g
			idx.characters = append(idx.characters, d.Character)
		}
		g.Definitions = append(g.Definitions, d)
	}
	sort.Strings(idx.characters)

	for _, f := range idx.fragments {
		for _, ch := range idx.characters {
			if strings.Contains(f.Text, ch) {
				g := idx.groups[ch]
				g.Fragments = append(g.Fragments, f)
			}
		}
	}

	return idx
}

// Sentences returns the scope the index was built for.
func (idx *Index) Sentences() SentenceSet { return idx.sentences }

// UsableDefinitions returns definitions with at least one link anywhere.
func (idx *Index) UsableDefinitions() []Definition { return idx.usable }

// ScopedDefinitions returns usable definitions linked into the scope.
func (idx *Index) ScopedDefinitions() []Definition { return idx.inScope }

// Fragments returns the in-scope fragments.
func (idx *Index) Fragments() []ShortSentence { return idx.fragments }

// Characters returns every character with a scoped definition, sorted.
func (idx *Index) Characters() []string { return idx.characters }

// Group returns the aggregate for ch, or nil if ch has no scoped definition.
func (idx *Index) Group(ch string) *Group { return idx.groups[ch] }

// MultiSenseCharacters returns characters with at least two scoped
// definitions, sorted.
func (idx *Index) MultiSenseCharacters() []string {
	var out []string
	for _, ch := range idx.characters {
		if len(idx.groups[ch].Definitions) >= 2 {
			out = append(out, ch)
		}
	}
	return out
}

// QualifyingCharacters returns characters with at least sentencesPerOption
// matching fragments, sorted.
func (idx *Index) QualifyingCharacters(sentencesPerOption int) []string {
	var out []string
	for _, ch := range idx.characters {
		if idx.groups[ch].Qualifies(sentencesPerOption) {
			out = append(out, ch)
		}
	}
	return out
}

// LinkedByID reports whether f's source sentence is linked to def.
func (idx *Index) LinkedByID(f ShortSentence, def Definition) bool {
	return idx.linkedIDs[def.ID].Has(f.SourceSentenceID)
}

// LinkedByText reports whether f's text occurs inside a sentence linked to
// def. It is the fallback when id linkage is missing.
func (idx *Index) LinkedByText(f ShortSentence, def Definition) bool {
	for _, t := range idx.linkedTexts[def.ID] {
		if strings.Contains(t, f.Text) {
			return true
		}
	}
	return false
}

// Resolve returns the definitions among candidates that f exemplifies.
// Id linkage wins; substring matching is only consulted when no candidate
// is linked by id.
func (idx *Index) Resolve(f ShortSentence, candidates []Definition) []Definition {
	var out []Definition
	for _, d := range candidates {
		if idx.LinkedByID(f, d) {
			out = append(out, d)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, d := range candidates {
		if idx.LinkedByText(f, d) {
			out = append(out, d)
		}
	}
	return out
}
