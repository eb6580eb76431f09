// Package selector performs the final cut: ranking surviving candidates,
// taking the top K, and normalizing their language and terminology for
// publication.
package selector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/FranksOps/sift/internal/candidate"
	"github.com/FranksOps/sift/internal/oracle"
)

// Config controls the final selection.
type Config struct {
	// TopK is the number of questions to select. Must be positive.
	TopK int
	// TargetLanguage is the language every published question must use.
	TargetLanguage candidate.Language
	// Topic is the canonical product term substituted for synonyms.
	Topic string
	// Synonyms are replaced by Topic in selected question text, in order.
	Synonyms []string
}

// Selector ranks, cuts, and normalizes candidates.
type Selector struct {
	cfg        Config
	translator oracle.Translator
	logger     *slog.Logger
}

// New validates the config and creates a Selector. The translator may be
// nil, in which case language normalization is skipped.
func New(cfg Config, translator oracle.Translator, logger *slog.Logger) (*Selector, error) {
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("top-k must be positive, got %d", cfg.TopK)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{cfg: cfg, translator: translator, logger: logger}, nil
}

// Select sorts candidates by final score descending, keeps the top K, and
// normalizes each kept question. Sorting is stable so equal scores keep
// their earlier pipeline order.
func (s *Selector) Select(ctx context.Context, cands []candidate.Candidate) []candidate.Candidate {
	ranked := make([]candidate.Candidate, len(cands))
	copy(ranked, cands)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	if len(ranked) > s.cfg.TopK {
		ranked = ranked[:s.cfg.TopK]
	}

	for i := range ranked {
		ranked[i] = s.normalize(ctx, ranked[i])
	}
	return ranked
}

// normalize translates off-language questions and substitutes synonyms
// with the canonical topic term. Translation failure keeps the original
// text rather than losing the slot.
func (s *Selector) normalize(ctx context.Context, c candidate.Candidate) candidate.Candidate {
	if s.translator != nil && s.cfg.TargetLanguage != "" && c.Language != s.cfg.TargetLanguage {
		translated, err := s.translator.Translate(ctx, c.Text, s.cfg.TargetLanguage)
		if err != nil {
			s.logger.Warn("translation failed, keeping original text",
				"question", c.Text, "err", err)
		} else if translated != "" {
			c.Text = translated
			c.Language = s.cfg.TargetLanguage
		}
	}

	if s.cfg.Topic != "" {
		for _, syn := range s.cfg.Synonyms {
			if syn == "" || syn == s.cfg.Topic {
				continue
			}
			c.Text = strings.ReplaceAll(c.Text, syn, s.cfg.Topic)
		}
	}
	return c
}
