// Package embed turns recipe text into fixed size vectors for the
// "RecipeEmbedding" table.
package embed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// DefaultDim matches the sentence transformer the database was sized for.
const DefaultDim = 384

var ErrDimension = errors.New("embedding dimension mismatch")

type Embedder interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
	Model() string
	Dim() int
}

// Kind selects an Embedder implementation.
type Kind string

const (
	KindNone   Kind = "none"
	KindHash   Kind = "hash"
	KindOllama Kind = "ollama"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindHash, nil
	case KindNone, KindHash, KindOllama:
		return k, nil
	}
	return "", fmt.Errorf("unknown embedder %q", s)
}

// New builds the embedder of the given kind. KindNone returns nil and
// an empty kind means KindHash.
func New(kind Kind, opts ...Option) (Embedder, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.Dim <= 0 {
		return nil, fmt.Errorf("%w: dim %d", ErrDimension, options.Dim)
	}

	switch kind {
	case KindNone:
		return nil, nil
	case KindHash, "":
		return NewHash(options.Dim), nil
	case KindOllama:
		return NewOllama(opts...), nil
	}
	return nil, fmt.Errorf("unknown embedder %q", kind)
}

// Literal renders v the way pgvector parses it: "[0.100000,-0.200000]".
func Literal(v pgvector.Vector) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v.Slice() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', 6, 32))
	}
	b.WriteByte(']')
	return b.String()
}

func checkDim(v pgvector.Vector, dim int) error {
	if n := len(v.Slice()); n != dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimension, n, dim)
	}
	return nil
}
