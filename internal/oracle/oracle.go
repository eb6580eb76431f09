// Package oracle defines the external capability contracts the pipeline
// calls but does not implement: LLM practicality scoring, text embedding,
// and translation. Every stage that consumes an oracle defines its own
// fallback for a failed call; implementations here just return errors.
package oracle

import (
	"context"

	"github.com/FranksOps/sift/internal/candidate"
)

// Scorer rates how practical a candidate question is for the given product
// topic on a 1-10 scale. Callers substitute a neutral default on error.
type Scorer interface {
	Practicality(ctx context.Context, question, topic string) (float64, error)
}

// Embedder converts texts into embedding vectors in one batched call. A
// failed batch means the calling stage skips itself entirely.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Translator renders text in the target language. Callers fall back to the
// untranslated input on error.
type Translator interface {
	Translate(ctx context.Context, text string, target candidate.Language) (string, error)
}
