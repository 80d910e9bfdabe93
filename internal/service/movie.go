package service

import (
	"context"
	"strings"

	"github.com/movietrack/backend/internal/db"
	"github.com/movietrack/backend/internal/model"
)

const moviesPerPage = 10

type movieStore interface {
	CreateMovie(ctx context.Context, userID int64, in model.MovieInput) (*model.Movie, error)
	GetMovieByID(ctx context.Context, movieID int64) (*model.Movie, error)
	GetMovieForOwner(ctx context.Context, movieID, userID int64) (*model.Movie, error)
	ListMovies(ctx context.Context, page, perPage int) ([]model.Movie, int, error)
	ListMoviesByOwner(ctx context.Context, userID int64, f model.MovieFilters, page, perPage int) ([]model.Movie, int, error)
	UpdateMovie(ctx context.Context, movieID int64, upd model.MovieUpdate) (*model.Movie, error)
	DeleteMovie(ctx context.Context, movieID int64) error
}

type MovieService struct {
	store movieStore
}

func NewMovieService(store movieStore) *MovieService {
	return &MovieService{store: store}
}

func (s *MovieService) Create(ctx context.Context, ownerID int64, in model.MovieInput) (*model.Movie, error) {
	if strings.TrimSpace(in.Title) == "" || in.DurationMinutes <= 0 || in.ReleaseDate.IsZero() {
		return nil, ErrInvalidInput
	}
	return s.store.CreateMovie(ctx, ownerID, in)
}

// Get reads a single movie through an owner-scoped query. A movie that exists
// but belongs to someone else looks exactly like a movie that does not exist.
func (s *MovieService) Get(ctx context.Context, movieID, callerID int64) (*model.Movie, error) {
	movie, err := s.store.GetMovieForOwner(ctx, movieID, callerID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return movie, nil
}

// Update checks ownership explicitly: a missing movie is ErrNotFound, a movie
// owned by someone else is ErrForbidden. Mutations keep the two distinct.
func (s *MovieService) Update(ctx context.Context, movieID, callerID int64, upd model.MovieUpdate) (*model.Movie, error) {
	movie, err := s.store.GetMovieByID(ctx, movieID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if movie.UserID != callerID {
		return nil, ErrForbidden
	}

	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, ErrInvalidInput
	}
	if upd.DurationMinutes != nil && *upd.DurationMinutes <= 0 {
		return nil, ErrInvalidInput
	}

	return s.store.UpdateMovie(ctx, movieID, upd)
}

func (s *MovieService) Delete(ctx context.Context, movieID, callerID int64) error {
	movie, err := s.store.GetMovieByID(ctx, movieID)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	if movie.UserID != callerID {
		return ErrForbidden
	}

	return s.store.DeleteMovie(ctx, movieID)
}

func (s *MovieService) ListPublic(ctx context.Context, page int) (*model.MovieListResponse, error) {
	if page < 1 {
		page = 1
	}
	movies, total, err := s.store.ListMovies(ctx, page, moviesPerPage)
	if err != nil {
		return nil, err
	}
	return listEnvelope(movies, page, total), nil
}

func (s *MovieService) ListMine(ctx context.Context, callerID int64, f model.MovieFilters, page int) (*model.MovieListResponse, error) {
	if page < 1 {
		page = 1
	}
	movies, total, err := s.store.ListMoviesByOwner(ctx, callerID, f, page, moviesPerPage)
	if err != nil {
		return nil, err
	}
	return listEnvelope(movies, page, total), nil
}

func listEnvelope(movies []model.Movie, page, total int) *model.MovieListResponse {
	totalPages := (total + moviesPerPage - 1) / moviesPerPage
	return &model.MovieListResponse{
		Data:        movies,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
	}
}
