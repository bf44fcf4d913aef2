// Package storage defines where scraped recipes end up.
package storage

import (
	"context"

	"github.com/izorzok/crawler/recipe"
)

// Storage buffers recipes with Save and writes them out on Flush.
type Storage interface {
	Save(recipes ...*recipe.Recipe) error
	Flush(ctx context.Context) error
}
