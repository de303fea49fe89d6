package corpus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/corpus/corpustest"
)

func buildFixture(t *testing.T) (*corpus.Snapshot, map[string]string) {
	t.Helper()
	b := corpustest.New()
	b.Library("lib")
	b.Collection("lib", "col", 1)
	b.Article("col", "a1", 1)
	b.Article("col", "a2", 2)

	ids := map[string]string{}
	ids["er1"] = b.Definition("而", "表顺承")
	ids["er2"] = b.Definition("而", "表转折")
	ids["zhi"] = b.Definition("之", "代词")
	ids["orphan"] = b.Definition("其", "无例句")

	ids["f1"] = b.Example("a1", ids["er1"], "学而时习之")
	ids["f2"] = b.Example("a1", ids["er2"], "人不知而不愠")
	ids["f3"] = b.Example("a2", ids["zhi"], "温故而知新之")

	// Fragment shorter than its sentence and not linked by id.
	sid := b.Sentence("a2", "吾日三省吾身而已矣")
	ids["loose"] = b.Fragment(sid, "吾日三省")
	ids["s_loose"] = sid
	return b.Snapshot(), ids
}

func TestDefinitionsWithExamples(t *testing.T) {
	snap, ids := buildFixture(t)

	usable := corpus.DefinitionsWithExamples(snap, snap.Definitions())
	require.Len(t, usable, 3)
	for _, d := range usable {
		assert.NotEqual(t, ids["orphan"], d.ID)
	}
}

func TestFragmentsInScope(t *testing.T) {
	snap, _ := buildFixture(t)
	a1, ok := snap.ArticleByID("a1")
	require.True(t, ok)

	set := corpus.NewSentenceSet()
	for _, s := range a1.Sentences {
		set[s.ID] = struct{}{}
	}
	frags := corpus.FragmentsInScope(snap, set)
	require.Len(t, frags, 2)
	for _, f := range frags {
		assert.Equal(t, "a1", f.SourceArticleID)
	}
}

func TestIndexGroups(t *testing.T) {
	snap, _ := buildFixture(t)
	all := corpus.NewSentenceSet()
	for _, lib := range snap.Libraries() {
		for _, c := range lib.Collections {
			for _, a := range c.Articles {
				for _, s := range a.Sentences {
					all[s.ID] = struct{}{}
				}
			}
		}
	}

	idx := corpus.NewIndex(snap, all)
	assert.Equal(t, []string{"之", "而"}, idx.Characters())
	assert.Equal(t, []string{"而"}, idx.MultiSenseCharacters())

	er := idx.Group("而")
	require.NotNil(t, er)
	assert.Len(t, er.Definitions, 2)
	// 学而时习之, 人不知而不愠, 温故而知新之
	assert.Len(t, er.Fragments, 3)
	assert.True(t, er.Qualifies(3))
	assert.False(t, er.Qualifies(4))

	assert.Nil(t, idx.Group("其"), "definition without links must be excluded")
	assert.Len(t, idx.Fragments(), 4)
}

func TestIndexResolve(t *testing.T) {
	snap, ids := buildFixture(t)
	idx := corpus.NewIndex(snap, corpus.NewSentenceSet(ids["s_loose"]))

	// Scoped to one sentence that no definition links to.
	assert.Empty(t, idx.ScopedDefinitions())
	assert.Len(t, idx.UsableDefinitions(), 3)

	all := corpus.NewIndex(snap, corpus.NewSentenceSet())
	er := []corpus.Definition{}
	for _, d := range all.UsableDefinitions() {
		if d.Character == "而" {
			er = append(er, d)
		}
	}
	require.Len(t, er, 2)

	byID := corpus.ShortSentence{Text: "学而时习之", SourceSentenceID: "missing"}
	// No id link: substring fallback finds the first sense.
	got := all.Resolve(byID, er)
	require.Len(t, got, 1)
	assert.Equal(t, ids["er1"], got[0].ID)

	none := corpus.ShortSentence{Text: "而今安在哉", SourceSentenceID: "missing"}
	assert.Empty(t, all.Resolve(none, er))
}

func TestNewShortSentenceLength(t *testing.T) {
	now := time.Now()
	tests := []struct {
		text    string
		wantErr bool
	}{
		{"学而", true},
		{"学而时习", false},
		{"学而时习之不亦说乎有朋自远方来", false},  // 15
		{"学而时习之不亦说乎有朋自远方来不", true}, // 16
		{"  学而时习  ", false},
	}
	for _, tt := range tests {
		_, err := corpus.NewShortSentence("f", tt.text, "a", "s", now)
		if tt.wantErr {
			var lenErr *corpus.ErrFragmentLength
			assert.ErrorAs(t, err, &lenErr, tt.text)
		} else {
			assert.NoError(t, err, tt.text)
		}
	}

	_, err := corpus.NewShortSentence("f", "学而时习", "a", "", now)
	assert.Error(t, err)
}

func TestIsSingleGrapheme(t *testing.T) {
	assert.True(t, corpus.IsSingleGrapheme("而"))
	assert.False(t, corpus.IsSingleGrapheme("而已"))
	assert.False(t, corpus.IsSingleGrapheme(""))
}
