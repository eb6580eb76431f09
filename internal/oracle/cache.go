package oracle

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/FranksOps/sift/internal/metrics"
)

// EmbedCache wraps an Embedder with an in-memory map and an optional on-disk
// store so repeated runs over the same candidate pool do not re-invoke the
// embedding oracle. Keys are derived from the model identifier and the exact
// input text. A single mutex is enough: the pipeline has no concurrent
// writers by design.
type EmbedCache struct {
	inner   Embedder
	modelID string
	dir     string

	mu  sync.Mutex
	mem map[string][]float64
}

// NewEmbedCache creates a cache around inner. dir may be empty for a purely
// in-memory cache; otherwise it is created on first use.
func NewEmbedCache(inner Embedder, modelID, dir string) (*EmbedCache, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	return &EmbedCache{
		inner:   inner,
		modelID: modelID,
		dir:     dir,
		mem:     make(map[string][]float64),
	}, nil
}

// Embed returns cached vectors where available and batches only the misses
// through the wrapped embedder. If the inner call fails, the error is
// returned unchanged so calling stages can apply their pass-through policy.
func (c *EmbedCache) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))

	var missTexts []string
	var missIdx []int

	c.mu.Lock()
	for i, text := range texts {
		key := c.key(text)
		if vec := c.lookup(key); vec != nil {
			metrics.RecordCacheLookup(true)
			out[i] = vec
			continue
		}
		metrics.RecordCacheLookup(false)
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}
	c.mu.Unlock()

	if len(missTexts) == 0 {
		return out, nil
	}

	vectors, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missTexts) {
		return nil, fmt.Errorf("embed cache: got %d vectors for %d texts", len(vectors), len(missTexts))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for j, vec := range vectors {
		out[missIdx[j]] = vec
		key := c.key(missTexts[j])
		c.mem[key] = vec
		if c.dir != "" {
			// Best effort; a failed write only costs a future re-embed.
			_ = c.saveToDisk(key, vec)
		}
	}
	return out, nil
}

// key derives the cache key for a text under the configured model.
func (c *EmbedCache) key(text string) string {
	sum := sha1.Sum([]byte(c.modelID + "\n" + text))
	return hex.EncodeToString(sum[:])
}

// lookup must be called with the mutex held.
func (c *EmbedCache) lookup(key string) []float64 {
	if vec, ok := c.mem[key]; ok {
		return vec
	}
	if c.dir == "" {
		return nil
	}
	vec, err := c.loadFromDisk(key)
	if err != nil {
		return nil
	}
	c.mem[key] = vec
	return vec
}

func (c *EmbedCache) saveToDisk(key string, vec []float64) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("marshal vector: %w", err)
	}
	return os.WriteFile(filepath.Join(c.dir, key+".json"), data, 0o644)
}

func (c *EmbedCache) loadFromDisk(key string) ([]float64, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, key+".json"))
	if err != nil {
		return nil, err
	}
	var vec []float64
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, fmt.Errorf("decode cached vector: %w", err)
	}
	return vec, nil
}
