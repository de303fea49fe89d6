package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/weight"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func intp(i int) *int { return &i }

func sampleDocument() *Document {
	return &Document{
		Libraries: []LibraryDoc{{
			ID:   "lib",
			Name: "高中语文",
			Collections: []CollectionDoc{
				{
					ID:   "col1",
					Name: "必修上",
					Articles: []ArticleDoc{{
						ID:    "quanxue",
						Title: "劝学",
						Sentences: []string{
							"君子曰学不可以已",
							"青取之于蓝而青于蓝",
							"吾尝终日而思矣",
						},
					}},
				},
				{
					ID:   "col2",
					Name: "必修下",
					Articles: []ArticleDoc{{
						ID:        "shishuo",
						Title:     "师说",
						Sentences: []string{"人非生而知之者", "孰能无惑"},
					}},
				},
			},
		}},
		Definitions: []DefinitionDoc{
			{
				Character: "而",
				Content:   "表转折",
				Examples:  []SentenceRefDoc{{Article: "劝学", Sentence: intp(1)}},
			},
			{
				Character: "而",
				Content:   "表修饰",
				Examples: []SentenceRefDoc{
					{Article: "劝学", Contains: "终日而思"},
					{Article: "shishuo", Sentence: intp(0)},
				},
			},
		},
		Fragments: []FragmentDoc{
			{Text: "青取之于蓝而青于蓝", Article: "劝学"},
			{Text: "吾尝终日而思矣", Article: "quanxue", Sentence: intp(2)},
			{Text: "人非生而知之者", Article: "师说"},
		},
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	events, err := newCounter(ctx, s.DB(), "events")
	require.NoError(t, err)
	drafts, err := newCounter(ctx, s.DB(), "drafts")
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		v, err := events.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(i), v)
	}
	v, err := drafts.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v, "counters are independent")

	// Registering an existing name keeps its value.
	again, err := newCounter(ctx, s.DB(), "events")
	require.NoError(t, err)
	v, err = again.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)
}

func TestLLMEventSequenceSurvivesDeletes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "anthropic", Model: "m", Purpose: "definitions", Success: true,
		}))
	}
	_, err := s.DB().Exec("DELETE FROM llm_request_events")
	require.NoError(t, err)

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "m", Purpose: "definitions", Success: true,
	}))
	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(3), events[0].Sequence)
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range Tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table.Name,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table.Name, err)
		}
	}
}

func TestImportAndSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.CorpusRepo()

	res, err := repo.Import(ctx, sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{
		Libraries: 1, Collections: 2, Articles: 2, Sentences: 5,
		Definitions: 2, Links: 3, Fragments: 3,
	}, res)

	snap, err := repo.Snapshot(ctx)
	require.NoError(t, err)

	libs := snap.Libraries()
	require.Len(t, libs, 1)
	require.Len(t, libs[0].Collections, 2)
	assert.Equal(t, "col1", libs[0].Collections[0].ID)
	assert.Less(t, libs[0].Collections[0].Order, libs[0].Collections[1].Order)

	art := libs[0].Collections[0].Articles[0]
	assert.Equal(t, "劝学", art.Title)
	require.Len(t, art.Sentences, 3)
	assert.Equal(t, "青取之于蓝而青于蓝", art.Sentences[1].Text)
	assert.Equal(t, 1, art.Sentences[1].Index)

	require.Len(t, snap.Definitions(), 2)
	for _, d := range snap.Definitions() {
		assert.Equal(t, "而", d.Character)
		links := snap.LinksForDefinition(d.ID)
		switch d.Content {
		case "表转折":
			require.Len(t, links, 1)
			assert.Equal(t, art.Sentences[1].ID, links[0].SentenceID)
			assert.Equal(t, 5, links[0].CharacterPosition)
		case "表修饰":
			assert.Len(t, links, 2)
		}
	}

	frags := snap.ShortSentences()
	require.Len(t, frags, 3)
	for _, f := range frags {
		src, ok := snap.SentenceByID(f.SourceSentenceID)
		require.True(t, ok)
		assert.Equal(t, src.ArticleID, f.SourceArticleID)
		assert.Contains(t, src.Text, f.Text)
	}

	// The snapshot feeds the index directly.
	idx := corpus.NewIndex(snap, corpus.NewSentenceSet("x"))
	assert.Len(t, idx.UsableDefinitions(), 2)
}

func TestImportIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.CorpusRepo()

	_, err := repo.Import(ctx, sampleDocument())
	require.NoError(t, err)
	first, err := repo.Snapshot(ctx)
	require.NoError(t, err)

	res, err := repo.Import(ctx, sampleDocument())
	require.NoError(t, err)
	assert.Zero(t, res.Definitions)
	assert.Zero(t, res.Links)
	assert.Zero(t, res.Fragments)

	second, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t,
		first.Libraries()[0].Collections[0].Articles[0].Sentences,
		second.Libraries()[0].Collections[0].Articles[0].Sentences)
	assert.Len(t, second.ShortSentences(), 3)
}

func TestImportRollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.CorpusRepo()

	doc := sampleDocument()
	doc.Fragments = append(doc.Fragments, FragmentDoc{Text: "孰能无", Article: "师说"})

	_, err := repo.Import(ctx, doc)
	var lengthErr *corpus.ErrFragmentLength
	require.ErrorAs(t, err, &lengthErr)
	assert.Equal(t, 3, lengthErr.Length)

	snap, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Libraries())
	assert.Empty(t, snap.ShortSentences())
}

func TestImportUnknownArticle(t *testing.T) {
	s := openTestStore(t)
	doc := sampleDocument()
	doc.Definitions[0].Examples[0].Article = "逍遥游"

	_, err := s.CorpusRepo().Import(context.Background(), doc)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddDefinitionAndFragment(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.CorpusRepo()
	_, err := repo.Import(ctx, sampleDocument())
	require.NoError(t, err)

	sentences, err := repo.SentencesContaining(ctx, "之", 0)
	require.NoError(t, err)
	require.Len(t, sentences, 2)

	id, err := repo.AddDefinition(ctx, "之", "代词", []string{sentences[0].ID})
	require.NoError(t, err)
	again, err := repo.AddDefinition(ctx, "之", "代词", nil)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	_, err = repo.AddDefinition(ctx, "之乎", "虚词", nil)
	assert.Error(t, err)

	require.NoError(t, repo.AddFragment(ctx, sentences[1].ID, "生而知之者"))
	assert.Error(t, repo.AddFragment(ctx, sentences[1].ID, "之者"))
	assert.ErrorIs(t, repo.AddFragment(ctx, "missing", "生而知之者也"), ErrNotFound)

	snap, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Definitions(), 3)
	assert.Len(t, snap.ShortSentences(), 4)
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "corpus.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
libraries:
  - name: 高中语文
    collections:
      - name: 必修上
        articles:
          - title: 劝学
            sentences: [君子曰学不可以已]
definitions:
  - character: 已
    content: 停止
    examples:
      - article: 劝学
        sentence: 0
fragments:
  - text: 学不可以已
    article: 劝学
`), 0o644))

	doc, err := LoadDocument(yamlPath)
	require.NoError(t, err)
	require.Len(t, doc.Libraries, 1)
	assert.Equal(t, "劝学", doc.Libraries[0].Collections[0].Articles[0].Title)
	require.NotNil(t, doc.Definitions[0].Examples[0].Sentence)
	assert.Equal(t, 0, *doc.Definitions[0].Examples[0].Sentence)
	assert.Nil(t, doc.Fragments[0].Sentence)

	jsonPath := filepath.Join(dir, "corpus.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"fragments":[{"text":"学不可以已","article":"劝学"}]}`), 0o644))
	doc, err = LoadDocument(jsonPath)
	require.NoError(t, err)
	assert.Len(t, doc.Fragments, 1)

	_, err = LoadDocument(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestCharacterWeights(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.WeightRepo()

	got, err := repo.PutCharacterWeight(ctx, "而", 60)
	require.NoError(t, err)
	assert.Equal(t, 60, got)

	// Only 40 is left for a second character.
	got, err = repo.PutCharacterWeight(ctx, "之", 60)
	require.NoError(t, err)
	assert.Equal(t, 40, got)

	set, err := repo.CharacterWeights(ctx)
	require.NoError(t, err)
	assert.Equal(t, []weight.CharacterWeight{{Char: "而", Weight: 60}, {Char: "之", Weight: 40}}, set.Weights())
	assert.Equal(t, 0, set.Other())

	got, err = repo.PutCharacterWeight(ctx, "而", 30)
	require.NoError(t, err)
	assert.Equal(t, 30, got)

	require.NoError(t, repo.RemoveCharacterWeight(ctx, "之"))
	assert.ErrorIs(t, repo.RemoveCharacterWeight(ctx, "之"), ErrNotFound)

	set, err = repo.CharacterWeights(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, set.Sum())
	assert.Equal(t, 70, set.Other())

	_, err = repo.PutCharacterWeight(ctx, "而已", 10)
	var invalid *weight.ErrInvalidCharacter
	assert.ErrorAs(t, err, &invalid)

	set, err = repo.ReplaceCharacterWeights(ctx, []weight.CharacterWeight{{Char: "测", Weight: 100}})
	require.NoError(t, err)
	assert.Equal(t, 0, set.Other())
	loaded, err := repo.CharacterWeights(ctx)
	require.NoError(t, err)
	assert.Equal(t, set.Weights(), loaded.Weights())
}

func TestArticleWeights(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.CorpusRepo().Import(ctx, sampleDocument())
	require.NoError(t, err)
	repo := s.WeightRepo()

	ws, err := repo.ArticleWeights(ctx)
	require.NoError(t, err)
	assert.Nil(t, ws)

	require.NoError(t, repo.PutArticleWeight(ctx, corpus.ArticleWeight{ArticleID: "quanxue", Weight: 80, Included: true}))
	require.NoError(t, repo.PutArticleWeight(ctx, corpus.ArticleWeight{ArticleID: "shishuo", Weight: 50, Included: false}))
	require.NoError(t, repo.PutArticleWeight(ctx, corpus.ArticleWeight{ArticleID: "quanxue", Weight: 70, Included: true}))
	assert.Error(t, repo.PutArticleWeight(ctx, corpus.ArticleWeight{ArticleID: "quanxue", Weight: 101}))
	assert.Error(t, repo.PutArticleWeight(ctx, corpus.ArticleWeight{ArticleID: "missing", Weight: 10, Included: true}))

	ws, err = repo.ArticleWeights(ctx)
	require.NoError(t, err)
	assert.Equal(t, []corpus.ArticleWeight{
		{ArticleID: "quanxue", Weight: 70, Included: true},
		{ArticleID: "shishuo", Weight: 50, Included: false},
	}, ws)

	require.NoError(t, repo.ClearArticleWeights(ctx))
	ws, err = repo.ArticleWeights(ctx)
	require.NoError(t, err)
	assert.Empty(t, ws)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "m1", Purpose: "definitions",
		InputTokens: 10, OutputTokens: 5, LatencyMs: 12, Success: true,
		RequestBody: "[user]\n而", ResponseBody: `{"definitions":[]}`,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "m1", Purpose: "keypoints",
		InputTokens: 20, OutputTokens: 0, Success: false, ErrorMessage: "boom",
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "keypoints", events[0].Purpose)
	assert.Greater(t, events[0].Sequence, events[1].Sequence)
	assert.False(t, events[0].Success)
	assert.Equal(t, "boom", events[0].ErrorMessage)
	assert.False(t, events[1].Timestamp.IsZero())

	events, err = repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "definitions"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, `{"definitions":[]}`, events[0].ResponseBody)

	events, err = repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	e, err := repo.GetLLMEvent(ctx, events[0].ID)
	require.NoError(t, err)
	assert.Equal(t, events[0].Sequence, e.Sequence)

	_, err = repo.GetLLMEvent(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	usage, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, []LLMUsage{{Model: "m1", Requests: 2, Failures: 1, InputTokens: 30, OutputTokens: 5}}, usage)
}
