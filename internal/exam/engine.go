// Package exam assembles multiple-choice questions from a scoped corpus.
//
// Generation is synchronous and reads a single corpus.Reader snapshot. All
// randomness comes from the Engine's Rand so tests can seed it.
package exam

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/scope"
	"github.com/abhisek/guwen/internal/weight"
)

// Rand is the uniform source used for every random choice.
type Rand = weight.Rand

// Engine generates exams. An Engine is not safe for concurrent use when
// its Rand is not.
type Engine struct {
	rng        Rand
	logger     *zap.Logger
	newID      func() string
	validators []Validator
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRand sets the random source.
func WithRand(r Rand) EngineOption {
	return func(e *Engine) { e.rng = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithIDFunc sets the question id generator. The default is uuid.NewString.
func WithIDFunc(f func() string) EngineOption {
	return func(e *Engine) { e.newID = f }
}

// WithValidators replaces the validator chain.
func WithValidators(vs ...Validator) EngineOption {
	return func(e *Engine) { e.validators = vs }
}

// NewEngine creates an Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:     zap.NewNop(),
		newID:      uuid.NewString,
		validators: DefaultValidators(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// Generate builds up to cfg.QuestionCount questions from r.
//
// It fails only when nothing can be built: *EmptyCorpusError when the
// scope holds no fragments or no usable definitions, *InsufficientError
// when every candidate character fell short. A shorter result than
// requested is returned without error.
func (e *Engine) Generate(r corpus.Reader, cfg Config) ([]Question, error) {
	cfg, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	ids := scope.Resolve(r, cfg.Scope, cfg.IncludePreviousKnowledge, cfg.ArticleWeights)
	idx := corpus.NewIndex(r, ids)

	if len(idx.Fragments()) == 0 || len(idx.ScopedDefinitions()) == 0 {
		return nil, &EmptyCorpusError{
			Scope:             cfg.Scope,
			Fragments:         len(idx.Fragments()),
			UsableDefinitions: len(idx.ScopedDefinitions()),
		}
	}

	g := &generation{
		Engine:   e,
		idx:      idx,
		cfg:      cfg,
		usedFrag: make(map[string]bool),
		log:      e.logger.With(zap.String("question_type", string(cfg.QuestionType))),
	}

	var questions []Question
	switch cfg.QuestionType {
	case SameCharacter:
		questions = g.sameCharacterQuestions()
	case DifferentCharacters:
		questions = g.differentCharactersQuestions()
	}

	if len(questions) == 0 {
		return nil, &InsufficientError{Diagnostics: Diagnose(idx, cfg)}
	}
	if len(questions) < cfg.QuestionCount {
		g.log.Warn("generated fewer questions than requested",
			zap.Int("requested", cfg.QuestionCount),
			zap.Int("generated", len(questions)))
	}
	return questions, nil
}

// generation is the state of one Generate call.
type generation struct {
	*Engine
	idx      *corpus.Index
	cfg      Config
	usedFrag map[string]bool
	log      *zap.Logger
}

// finish assigns an id, runs the validators and records fragment usage.
// It returns false if the question was rejected.
func (g *generation) finish(q *Question, fragments []corpus.ShortSentence) bool {
	q.ID = g.newID()
	q.QuestionType = g.cfg.QuestionType
	q.AnswerType = g.cfg.AnswerType
	for _, v := range g.validators {
		if verr := v.Validate(q, g.cfg); verr != nil {
			g.log.Debug("question rejected", zap.String("character", q.Character), zap.Error(verr))
			return false
		}
	}
	for _, f := range fragments {
		g.usedFrag[f.ID] = true
	}
	return true
}
