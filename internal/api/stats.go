package api

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/exam"
)

type statsQuery struct {
	LibraryID          string `form:"libraryId"`
	CollectionID       string `form:"collectionId"`
	ArticleID          string `form:"articleId"`
	QuestionType       string `form:"questionType"`
	QuestionCount      int    `form:"questionCount"`
	OptionsCount       int    `form:"optionsCount"`
	SentencesPerOption int    `form:"sentencesPerOption"`
	IncludePrevious    bool   `form:"includePreviousKnowledge"`
}

func (s *Server) stats(c *gin.Context) {
	var q statsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	cfg, err := s.withStoredWeights(ctx, exam.Config{
		Scope: corpus.Scope{
			LibraryID:    q.LibraryID,
			CollectionID: q.CollectionID,
			ArticleID:    q.ArticleID,
		},
		QuestionType:             exam.QuestionType(q.QuestionType),
		QuestionCount:            q.QuestionCount,
		OptionsCount:             q.OptionsCount,
		SentencesPerOption:       q.SentencesPerOption,
		IncludePreviousKnowledge: q.IncludePrevious,
	})
	if err != nil {
		internalError(c, err)
		return
	}
	if _, err := cfg.Resolve(); err != nil {
		badRequest(c, err)
		return
	}

	snap, err := s.store.CorpusRepo().Snapshot(ctx)
	if err != nil {
		internalError(c, err)
		return
	}
	d, err := exam.Stats(snap, cfg)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, d)
}
