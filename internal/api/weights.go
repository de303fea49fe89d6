package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/store"
	"github.com/abhisek/guwen/internal/weight"
)

type weightsResponse struct {
	Weights []weight.CharacterWeight `json:"weights"`
	Other   int                      `json:"other"`
}

func newWeightsResponse(set *weight.Set) weightsResponse {
	ws := set.Weights()
	if ws == nil {
		ws = []weight.CharacterWeight{}
	}
	return weightsResponse{Weights: ws, Other: set.Other()}
}

func (s *Server) listWeights(c *gin.Context) {
	set, err := s.store.WeightRepo().CharacterWeights(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, newWeightsResponse(set))
}

type putWeightRequest struct {
	Weight *int `json:"weight" binding:"required,min=0,max=100"`
}

type putWeightResponse struct {
	Char      string `json:"char"`
	Requested int    `json:"requested"`
	Weight    int    `json:"weight"`
	Other     int    `json:"other"`
}

// putWeight stores a weight for one character. The applied weight may be
// lower than requested when the other characters leave less room.
func (s *Server) putWeight(c *gin.Context) {
	var req putWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	char := c.Param("char")

	ctx := c.Request.Context()
	repo := s.store.WeightRepo()
	applied, err := repo.PutCharacterWeight(ctx, char, *req.Weight)
	var invalid *weight.ErrInvalidCharacter
	if errors.As(err, &invalid) {
		badRequest(c, err)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	set, err := repo.CharacterWeights(ctx)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, putWeightResponse{Char: char, Requested: *req.Weight, Weight: applied, Other: set.Other()})
}

func (s *Server) removeWeight(c *gin.Context) {
	err := s.store.WeightRepo().RemoveCharacterWeight(c.Request.Context(), c.Param("char"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		notFound(c, err)
	case err != nil:
		internalError(c, err)
	default:
		noContent(c)
	}
}

func (s *Server) listArticleWeights(c *gin.Context) {
	aws, err := s.store.WeightRepo().ArticleWeights(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	if aws == nil {
		aws = []corpus.ArticleWeight{}
	}
	ok(c, gin.H{"articleWeights": aws})
}

type putArticleWeightRequest struct {
	Weight   *int  `json:"weight" binding:"required,min=0,max=100"`
	Included *bool `json:"included"`
}

func (s *Server) putArticleWeight(c *gin.Context) {
	var req putArticleWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	aw := corpus.ArticleWeight{ArticleID: c.Param("id"), Weight: *req.Weight, Included: true}
	if req.Included != nil {
		aw.Included = *req.Included
	}
	if err := s.store.WeightRepo().PutArticleWeight(c.Request.Context(), aw); err != nil {
		internalError(c, err)
		return
	}
	ok(c, aw)
}

func (s *Server) clearArticleWeights(c *gin.Context) {
	if err := s.store.WeightRepo().ClearArticleWeights(c.Request.Context()); err != nil {
		internalError(c, err)
		return
	}
	noContent(c)
}
