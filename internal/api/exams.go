package api

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/guwen/internal/exam"
	"github.com/abhisek/guwen/internal/render"
)

type examRequest struct {
	exam.Config
	Title string  `json:"title"`
	Seed  *uint64 `json:"seed,omitempty"`
}

type examResponse struct {
	Questions []exam.Question `json:"questions"`
	Sheet     render.Sheet    `json:"sheet"`
}

func (s *Server) generateExam(c *gin.Context) {
	var req examRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	cfg, err := s.withStoredWeights(ctx, req.Config)
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

	opts := []exam.EngineOption{exam.WithLogger(s.log)}
	if req.Seed != nil {
		opts = append(opts, exam.WithRand(rand.New(rand.NewPCG(*req.Seed, *req.Seed))))
	}
	qs, err := exam.NewEngine(opts...).Generate(snap, cfg)

	var empty *exam.EmptyCorpusError
	var insufficient *exam.InsufficientError
	switch {
	case errors.As(err, &empty):
		fail(c, http.StatusUnprocessableEntity, err.Error(), gin.H{
			"fragments":         empty.Fragments,
			"usableDefinitions": empty.UsableDefinitions,
		})
		return
	case errors.As(err, &insufficient):
		fail(c, http.StatusUnprocessableEntity, err.Error(), gin.H{"diagnostics": insufficient.Diagnostics})
		return
	case err != nil:
		internalError(c, err)
		return
	}

	ok(c, examResponse{Questions: qs, Sheet: render.Build(req.Title, qs)})
}

// withStoredWeights fills the weights cfg leaves unset from the store.
func (s *Server) withStoredWeights(ctx context.Context, cfg exam.Config) (exam.Config, error) {
	weights := s.store.WeightRepo()
	set, err := weights.CharacterWeights(ctx)
	if err != nil {
		return cfg, err
	}
	articles, err := weights.ArticleWeights(ctx)
	if err != nil {
		return cfg, err
	}
	return cfg.WithStoredWeights(set.Weights(), articles), nil
}
