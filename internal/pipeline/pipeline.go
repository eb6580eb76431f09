// Package pipeline wires the selection stages together: aggregate
// question demand, mine competitor copy, score, deduplicate, drop
// already-covered questions, and select the final set.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FranksOps/sift/internal/candidate"
	"github.com/FranksOps/sift/internal/config"
	"github.com/FranksOps/sift/internal/corpus"
	"github.com/FranksOps/sift/internal/dedupe"
	"github.com/FranksOps/sift/internal/extract"
	"github.com/FranksOps/sift/internal/frequency"
	"github.com/FranksOps/sift/internal/metrics"
	"github.com/FranksOps/sift/internal/oracle"
	"github.com/FranksOps/sift/internal/score"
	"github.com/FranksOps/sift/internal/selector"
	"github.com/FranksOps/sift/internal/storage"
	"github.com/google/uuid"
)

// Input carries the raw material for one selection run.
type Input struct {
	// Mentions are PAA questions tagged with the query that surfaced them.
	Mentions []frequency.Mention
	// Documents are harvested competitor pages to mine for questions.
	Documents []corpus.Document
	// PreviousText is existing page copy; questions it already answers
	// are dropped. Empty disables coverage filtering.
	PreviousText string
}

// Result is the outcome of one selection run.
type Result struct {
	RunID     string
	Questions []candidate.Candidate
	// StageCounts records the surviving candidate count after each stage.
	StageCounts map[string]int
	Duration    time.Duration
}

// Pipeline runs the full selection flow for a configured topic.
type Pipeline struct {
	cfg      config.Config
	scorer   oracle.Scorer
	embedder oracle.Embedder
	sel      *selector.Selector
	backend  storage.Backend
	logger   *slog.Logger
}

// New assembles a pipeline. The storage backend may be nil, in which
// case runs are not persisted.
func New(cfg config.Config, scorer oracle.Scorer, embedder oracle.Embedder, translator oracle.Translator, backend storage.Backend, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	sel, err := selector.New(selector.Config{
		TopK:           cfg.TopK,
		TargetLanguage: cfg.TargetLanguage,
		Topic:          cfg.Topic,
		Synonyms:       cfg.Synonyms,
	}, translator, logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:      cfg,
		scorer:   scorer,
		embedder: embedder,
		sel:      sel,
		backend:  backend,
		logger:   logger,
	}, nil
}

// Run executes every stage in order and returns the selected questions.
// Oracle failures degrade individual stages but never abort the run; a
// returned error means the input or configuration was unusable.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID, "topic", p.cfg.Topic)

	counts := make(map[string]int)

	if len(in.Mentions) == 0 && len(in.Documents) == 0 {
		err := fmt.Errorf("nothing to select from: no mentions and no documents")
		p.persist(ctx, logger, &Result{
			RunID:       runID,
			StageCounts: counts,
			Duration:    time.Since(start),
		}, 0, err.Error())
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	record := func(stage string, cands []candidate.Candidate) {
		counts[stage] = len(cands)
		metrics.RecordStage(stage, len(cands))
		logger.Info("stage complete", "stage", stage, "candidates", len(cands))
	}

	// Demand from search queries and supply from competitor copy form
	// one pool. Aggregated mentions come first so their higher base
	// scores win order ties downstream.
	cands := frequency.Aggregate(in.Mentions)
	cands = append(cands, extract.Extract(in.Documents)...)
	record("gather", cands)

	topicTerms := p.cfg.Synonyms
	if p.cfg.TopicEN != "" {
		topicTerms = append(append([]string{}, topicTerms...), p.cfg.TopicEN)
	}
	cands = score.FilterOnTopic(cands, p.cfg.Topic, topicTerms)
	record("topic_gate", cands)

	scorer := score.New(p.scorer, p.cfg.PracticalityWeight, logger)
	cands = scorer.Score(ctx, p.cfg.Topic, cands)
	record("score", cands)

	cands = dedupe.Deduplicate(ctx, cands, p.embedder, p.cfg.DedupThreshold, logger)
	record("dedupe", cands)

	cands = dedupe.FilterCovered(ctx, cands, in.PreviousText, p.embedder, p.cfg.OverlapThreshold, logger)
	record("coverage", cands)

	poolSize := len(cands)
	selected := p.sel.Select(ctx, cands)
	record("select", selected)

	res := &Result{
		RunID:       runID,
		Questions:   selected,
		StageCounts: counts,
		Duration:    time.Since(start),
	}

	p.persist(ctx, logger, res, poolSize, "")
	metrics.PipelineRunsTotal.WithLabelValues("ok").Inc()
	logger.Info("selection complete", "selected", len(selected), "duration", res.Duration)
	return res, nil
}

// persist saves the run outcome, failed runs included, when a backend
// is configured. Storage failures are logged, not returned.
func (p *Pipeline) persist(ctx context.Context, logger *slog.Logger, res *Result, poolSize int, runErr string) {
	if p.backend == nil {
		return
	}

	questions := make([]string, len(res.Questions))
	for i, c := range res.Questions {
		questions[i] = c.Text
	}

	rec := &storage.SelectionRecord{
		ID:             res.RunID,
		Topic:          p.cfg.Topic,
		Questions:      questions,
		CandidateCount: poolSize,
		SelectedCount:  len(res.Questions),
		Duration:       res.Duration,
		CreatedAt:      time.Now(),
		Error:          runErr,
	}
	if err := p.backend.Save(ctx, rec); err != nil {
		logger.Error("failed to persist selection run", "err", err)
	}
}
