package service

import (
	"context"
	"fmt"

	"github.com/movielist/movielist-go/internal/repository"
)

// SearchCatalog is the slice of the movie catalog the search service
// needs.
type SearchCatalog interface {
	Search(ctx context.Context, title string, page int) ([]byte, error)
}

// MovieService proxies catalog searches with a cache in front.
type MovieService struct {
	catalog SearchCatalog
	cache   *repository.SearchCache
}

// NewMovieService creates a new MovieService.
func NewMovieService(catalog SearchCatalog, cache *repository.SearchCache) *MovieService {
	return &MovieService{catalog: catalog, cache: cache}
}

// Search returns the catalog's raw search response for a title and
// page, serving repeated queries from the cache.
func (s *MovieService) Search(ctx context.Context, title string, page int) ([]byte, error) {
	key := fmt.Sprintf("movies:search:%s:%d", title, page)

	if body, ok := s.cache.Get(ctx, key); ok {
		return body, nil
	}

	body, err := s.catalog.Search(ctx, title, page)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, body)
	return body, nil
}
