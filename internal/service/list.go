package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/movielist/movielist-go/internal/model"
	"github.com/movielist/movielist-go/internal/repository"
	"github.com/movielist/movielist-go/internal/tmdb"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrTitleRequired      = errors.New("title is required")
	ErrDescRequired       = errors.New("description is required")
	ErrTitleOrDescription = errors.New("title or description are required")
	ErrMovieIDRequired    = errors.New("movie id is required")
	ErrListNotFound       = errors.New("user list not found")
	ErrMovieNotFound      = errors.New("movie not found")
)

const defaultPageSize = 10

// Catalog is the slice of the movie catalog the list service needs:
// detail lookup for fetch-through when a movie is first added.
type Catalog interface {
	MovieByID(ctx context.Context, movieID string) (*tmdb.MovieDetails, error)
}

// ListService handles user-list business logic.
type ListService struct {
	lists   repository.ListStore
	users   repository.UserStore
	movies  repository.MovieStore
	catalog Catalog
}

// NewListService creates a new ListService.
func NewListService(lists repository.ListStore, users repository.UserStore, movies repository.MovieStore, catalog Catalog) *ListService {
	return &ListService{lists: lists, users: users, movies: movies, catalog: catalog}
}

// Create creates an empty list owned by userID.
func (s *ListService) Create(ctx context.Context, userID bson.ObjectID, req model.CreateListRequest) (*model.List, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	if req.Description == "" {
		return nil, ErrDescRequired
	}

	list := &model.List{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Movies:      []bson.ObjectID{},
	}

	if err := s.lists.Create(ctx, list); err != nil {
		return nil, err
	}

	return list, nil
}

// All returns one page of every user's lists, newest first, with
// owners and movies resolved.
func (s *ListService) All(ctx context.Context, page, limit int) (model.PagedListsResponse, error) {
	page, limit = normalizePage(page, limit)

	lists, err := s.lists.ListAll(ctx, page, limit)
	if err != nil {
		return model.PagedListsResponse{}, err
	}

	total, err := s.lists.CountAll(ctx)
	if err != nil {
		return model.PagedListsResponse{}, err
	}

	return s.paged(ctx, lists, total, page, limit)
}

// ByUser returns one page of the lists owned by the user with the
// given hex id. An unparseable id yields an empty page, the same as a
// user with no lists.
func (s *ListService) ByUser(ctx context.Context, userID string, page, limit int) (model.PagedListsResponse, error) {
	page, limit = normalizePage(page, limit)

	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return model.PagedListsResponse{Data: []model.ListResponse{}, Page: page}, nil
	}

	lists, err := s.lists.ListByUser(ctx, oid, page, limit)
	if err != nil {
		return model.PagedListsResponse{}, err
	}

	total, err := s.lists.CountByUser(ctx, oid)
	if err != nil {
		return model.PagedListsResponse{}, err
	}

	return s.paged(ctx, lists, total, page, limit)
}

// ByID returns one list with its owner and movies resolved.
func (s *ListService) ByID(ctx context.Context, listID string) (model.ListResponse, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			return model.ListResponse{}, ErrListNotFound
		}
		return model.ListResponse{}, err
	}

	resolved, err := s.resolve(ctx, []model.List{*list})
	if err != nil {
		return model.ListResponse{}, err
	}

	return resolved[0], nil
}

// TitlesForUser returns id and title of every list the user owns.
func (s *ListService) TitlesForUser(ctx context.Context, userID bson.ObjectID) ([]model.ListTitleResponse, error) {
	lists, err := s.lists.TitlesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	titles := make([]model.ListTitleResponse, len(lists))
	for i, l := range lists {
		titles[i] = model.ListTitleResponse{ID: l.ID.Hex(), Title: l.Title}
	}

	return titles, nil
}

// Update changes a list's title and/or description. At least one of
// the two must be present.
func (s *ListService) Update(ctx context.Context, userID bson.ObjectID, listID string, req model.UpdateListRequest) (*model.List, error) {
	if req.Title == "" && req.Description == "" {
		return nil, ErrTitleOrDescription
	}

	list, err := s.lists.Update(ctx, listID, userID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}

	return list, nil
}

// Delete removes a list the caller owns.
func (s *ListService) Delete(ctx context.Context, userID bson.ObjectID, listID string) error {
	err := s.lists.Delete(ctx, listID, userID)
	if errors.Is(err, repository.ErrListNotFound) {
		return ErrListNotFound
	}
	return err
}

// AddMovie adds a catalog movie to a list. The first time any user
// adds a movie it is fetched from the catalog and stored locally;
// afterwards the local copy is reused. Adding a movie twice is a
// no-op.
func (s *ListService) AddMovie(ctx context.Context, userID bson.ObjectID, listID, movieID string) (*model.List, error) {
	if movieID == "" {
		return nil, ErrMovieIDRequired
	}

	movie, err := s.movies.GetByMovieID(ctx, movieID)
	if errors.Is(err, repository.ErrMovieNotFound) {
		movie, err = s.fetchMovie(ctx, movieID)
	}
	if err != nil {
		return nil, err
	}

	list, err := s.lists.AddMovie(ctx, listID, userID, movie.ID)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}

	return list, nil
}

// RemoveMovie removes a movie reference from a list.
func (s *ListService) RemoveMovie(ctx context.Context, userID bson.ObjectID, listID, movieID string) (*model.List, error) {
	if movieID == "" {
		return nil, ErrMovieIDRequired
	}

	movie, err := s.movies.GetByMovieID(ctx, movieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	list, err := s.lists.RemoveMovie(ctx, listID, userID, movie.ID)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}

	return list, nil
}

// fetchMovie pulls a movie from the catalog and stores it locally. A
// concurrent insert of the same movie is resolved by re-reading.
func (s *ListService) fetchMovie(ctx context.Context, movieID string) (*model.Movie, error) {
	details, err := s.catalog.MovieByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	movie := &model.Movie{
		MovieID:     movieID,
		Title:       details.Title,
		Overview:    details.Overview,
		ReleaseDate: details.ReleaseDate,
		PosterPath:  details.PosterPath,
	}

	err = s.movies.Create(ctx, movie)
	if errors.Is(err, repository.ErrDuplicateMovie) {
		return s.movies.GetByMovieID(ctx, movieID)
	}
	if err != nil {
		return nil, err
	}

	return movie, nil
}

// paged resolves owners and movies and wraps the page in the standard
// envelope.
func (s *ListService) paged(ctx context.Context, lists []model.List, total int64, page, limit int) (model.PagedListsResponse, error) {
	resolved, err := s.resolve(ctx, lists)
	if err != nil {
		return model.PagedListsResponse{}, err
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return model.PagedListsResponse{
		Data:       resolved,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// resolve turns raw lists into responses with owner names and movie
// documents filled in. One movie query for the whole page; one user
// query per distinct owner. A missing owner leaves the fragment empty
// rather than failing the read.
func (s *ListService) resolve(ctx context.Context, lists []model.List) ([]model.ListResponse, error) {
	movieIDs := make([]bson.ObjectID, 0)
	seen := make(map[bson.ObjectID]bool)
	for _, l := range lists {
		for _, id := range l.Movies {
			if !seen[id] {
				seen[id] = true
				movieIDs = append(movieIDs, id)
			}
		}
	}

	movies, err := s.movies.GetByIDs(ctx, movieIDs)
	if err != nil {
		return nil, err
	}
	movieByID := make(map[bson.ObjectID]model.Movie, len(movies))
	for _, m := range movies {
		movieByID[m.ID] = m
	}

	ownerByID := make(map[bson.ObjectID]model.ListOwner)
	for _, l := range lists {
		if _, ok := ownerByID[l.UserID]; ok {
			continue
		}
		owner, err := s.users.GetByID(ctx, l.UserID.Hex())
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				slog.Warn("list owner missing", "list_id", l.ID.Hex(), "user_id", l.UserID.Hex())
				ownerByID[l.UserID] = model.ListOwner{ID: l.UserID.Hex()}
				continue
			}
			return nil, err
		}
		ownerByID[l.UserID] = model.ListOwner{
			ID:        owner.ID.Hex(),
			FirstName: owner.FirstName,
			LastName:  owner.LastName,
		}
	}

	responses := make([]model.ListResponse, len(lists))
	for i, l := range lists {
		listMovies := make([]model.Movie, 0, len(l.Movies))
		for _, id := range l.Movies {
			if m, ok := movieByID[id]; ok {
				listMovies = append(listMovies, m)
			}
		}

		responses[i] = model.ListResponse{
			ID:          l.ID.Hex(),
			Owner:       ownerByID[l.UserID],
			Title:       l.Title,
			Description: l.Description,
			Movies:      listMovies,
			CreatedAt:   l.CreatedAt,
			UpdatedAt:   l.UpdatedAt,
		}
	}

	return responses, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	return page, limit
}

// ParsePage parses page/limit query values with defaults.
func ParsePage(pageStr, limitStr string) (int, int) {
	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)
	return normalizePage(page, limit)
}
