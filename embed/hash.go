package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/izorzok/crawler/strutil"
	"github.com/pgvector/pgvector-go"
)

// Hash is a bag of words feature hashing embedder. It needs no model
// server, so similar ingredient lists still land close to each other in
// offline runs.
type Hash struct {
	dim int
}

func NewHash(dim int) *Hash {
	return &Hash{dim: dim}
}

func (h *Hash) Model() string { return "hash-bow" }

func (h *Hash) Dim() int { return h.dim }

// Embed folds the text, hashes every token into one of dim buckets with a
// hash derived sign and L2 normalises the result. Empty text gives the
// zero vector.
func (h *Hash) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	if err := ctx.Err(); err != nil {
		return pgvector.Vector{}, err
	}

	out := make([]float32, h.dim)
	tokens := strings.FieldsFunc(strutil.Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		f := fnv.New64a()
		f.Write([]byte(tok))
		sum := f.Sum64()
		i := sum % uint64(h.dim)
		if sum>>63 == 1 {
			out[i]--
		} else {
			out[i]++
		}
	}

	var norm float64
	for _, v := range out {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range out {
			out[i] *= scale
		}
	}
	return pgvector.NewVector(out), nil
}
