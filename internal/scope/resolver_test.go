package scope

import (
	"sort"
	"testing"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/corpus/corpustest"
)

// fixture: lib1{col1(order 1){a1,a2,a3}, col2(order 2){b1}}, lib2{col3{c1}}.
// Every article has one sentence whose text is the article id.
func fixture() (*corpus.Snapshot, map[string]string) {
	b := corpustest.New()
	b.Library("lib1")
	b.Library("lib2")
	b.Collection("lib1", "col1", 1)
	b.Collection("lib1", "col2", 2)
	b.Collection("lib2", "col3", 1)
	b.Article("col1", "a1", 1)
	b.Article("col1", "a2", 2)
	b.Article("col1", "a3", 3)
	b.Article("col2", "b1", 1)
	b.Article("col3", "c1", 1)

	sentences := make(map[string]string)
	for _, art := range []string{"a1", "a2", "a3", "b1", "c1"} {
		sentences[b.Sentence(art, art)] = art
	}
	return b.Snapshot(), sentences
}

func articlesOf(set corpus.SentenceSet, sentences map[string]string) []string {
	var out []string
	for id := range set {
		out = append(out, sentences[id])
	}
	sort.Strings(out)
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolve(t *testing.T) {
	snap, sentences := fixture()

	tests := []struct {
		name     string
		scope    corpus.Scope
		previous bool
		weights  []corpus.ArticleWeight
		want     []string
	}{
		{
			name: "empty scope selects everything",
			want: []string{"a1", "a2", "a3", "b1", "c1"},
		},
		{
			name:  "library filter",
			scope: corpus.Scope{LibraryID: "lib2"},
			want:  []string{"c1"},
		},
		{
			name:  "collection filter",
			scope: corpus.Scope{CollectionID: "col1"},
			want:  []string{"a1", "a2", "a3"},
		},
		{
			name:  "article filter",
			scope: corpus.Scope{CollectionID: "col1", ArticleID: "a2"},
			want:  []string{"a2"},
		},
		{
			name:     "previous collections",
			scope:    corpus.Scope{CollectionID: "col2"},
			previous: true,
			want:     []string{"a1", "a2", "a3", "b1"},
		},
		{
			name:     "previous articles inside the collection",
			scope:    corpus.Scope{CollectionID: "col1", ArticleID: "a3"},
			previous: true,
			want:     []string{"a1", "a2", "a3"},
		},
		{
			name:     "previous collections and articles",
			scope:    corpus.Scope{CollectionID: "col2", ArticleID: "b1"},
			previous: true,
			want:     []string{"a1", "a2", "a3", "b1"},
		},
		{
			name:     "previous without collection is a no-op",
			scope:    corpus.Scope{ArticleID: "a3"},
			previous: true,
			want:     []string{"a3"},
		},
		{
			name:  "article weights restrict",
			scope: corpus.Scope{CollectionID: "col1"},
			weights: []corpus.ArticleWeight{
				{ArticleID: "a1", Weight: 50, Included: true},
				{ArticleID: "a2", Weight: 0, Included: true},
				{ArticleID: "a3", Weight: 80, Included: false},
			},
			want: []string{"a1"},
		},
		{
			name:    "empty non-nil weights select nothing",
			weights: []corpus.ArticleWeight{},
			want:    nil,
		},
		{
			name:     "weights apply to previous material",
			scope:    corpus.Scope{CollectionID: "col2"},
			previous: true,
			weights: []corpus.ArticleWeight{
				{ArticleID: "a2", Weight: 10, Included: true},
				{ArticleID: "b1", Weight: 10, Included: true},
			},
			want: []string{"a2", "b1"},
		},
		{
			name:  "unknown collection",
			scope: corpus.Scope{CollectionID: "nope"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := articlesOf(Resolve(snap, tt.scope, tt.previous, tt.weights), sentences)
			if !equal(got, tt.want) {
				t.Errorf("Resolve() articles = %v, want %v", got, tt.want)
			}
		})
	}
}
