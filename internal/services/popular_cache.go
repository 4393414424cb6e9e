package services

import (
	"context"
	"time"

	"github.com/mkraev/filmoteka/internal/models"
)

// PopularCache is the slice of the popular-films cache the services depend
// on. A nil value disables caching.
type PopularCache interface {
	GetPopular(ctx context.Context, count int) ([]models.Film, bool)
	SetPopular(ctx context.Context, count int, films []models.Film)
	Invalidate(ctx context.Context)
}

// invalidatePopular drops every cached ranking after a mutation that can
// change like counts. Bounded so a slow cache never stalls the write path.
func invalidatePopular(c PopularCache) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c.Invalidate(ctx)
}
