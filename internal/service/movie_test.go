package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/movietrack/backend/internal/model"
)

type fakeMovieStore struct {
	movies map[int64]*model.Movie
	nextID int64

	// records the owner passed to ListMoviesByOwner
	listOwner int64
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{movies: map[int64]*model.Movie{}, nextID: 1}
}

func (f *fakeMovieStore) CreateMovie(_ context.Context, userID int64, in model.MovieInput) (*model.Movie, error) {
	m := &model.Movie{
		ID:              f.nextID,
		Title:           in.Title,
		OriginalTitle:   in.OriginalTitle,
		Description:     in.Description,
		PosterURL:       in.PosterURL,
		DurationMinutes: in.DurationMinutes,
		Budget:          in.Budget,
		ReleaseDate:     in.ReleaseDate,
		UserID:          userID,
	}
	f.movies[m.ID] = m
	f.nextID++
	return m, nil
}

func (f *fakeMovieStore) GetMovieByID(_ context.Context, movieID int64) (*model.Movie, error) {
	if m, ok := f.movies[movieID]; ok {
		return m, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeMovieStore) GetMovieForOwner(_ context.Context, movieID, userID int64) (*model.Movie, error) {
	if m, ok := f.movies[movieID]; ok && m.UserID == userID {
		return m, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeMovieStore) ListMovies(_ context.Context, page, perPage int) ([]model.Movie, int, error) {
	list := []model.Movie{}
	for _, m := range f.movies {
		list = append(list, *m)
	}
	return list, len(f.movies), nil
}

func (f *fakeMovieStore) ListMoviesByOwner(_ context.Context, userID int64, _ model.MovieFilters, page, perPage int) ([]model.Movie, int, error) {
	f.listOwner = userID
	list := []model.Movie{}
	for _, m := range f.movies {
		if m.UserID == userID {
			list = append(list, *m)
		}
	}
	return list, len(list), nil
}

func (f *fakeMovieStore) UpdateMovie(_ context.Context, movieID int64, upd model.MovieUpdate) (*model.Movie, error) {
	m, ok := f.movies[movieID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if upd.Title != nil {
		m.Title = *upd.Title
	}
	if upd.DurationMinutes != nil {
		m.DurationMinutes = *upd.DurationMinutes
	}
	return m, nil
}

func (f *fakeMovieStore) DeleteMovie(_ context.Context, movieID int64) error {
	delete(f.movies, movieID)
	return nil
}

func testMovieInput(title string) model.MovieInput {
	return model.MovieInput{
		Title:           title,
		DurationMinutes: 120,
		ReleaseDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateMovieValidation(t *testing.T) {
	svc := NewMovieService(newFakeMovieStore())

	cases := []model.MovieInput{
		{Title: "", DurationMinutes: 120, ReleaseDate: time.Now()},
		{Title: "Film", DurationMinutes: 0, ReleaseDate: time.Now()},
		{Title: "Film", DurationMinutes: 120},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), 1, in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Create(%+v): expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestCreateMovieBindsOwner(t *testing.T) {
	store := newFakeMovieStore()
	svc := NewMovieService(store)

	movie, err := svc.Create(context.Background(), 7, testMovieInput("Inception"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if movie.UserID != 7 {
		t.Fatalf("owner not bound at creation: %+v", movie)
	}
}

func TestGetHidesOtherOwnersMovies(t *testing.T) {
	store := newFakeMovieStore()
	svc := NewMovieService(store)

	movie, err := svc.Create(context.Background(), 1, testMovieInput("Inception"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Caller 2 reading caller 1's movie: same outcome as a missing id.
	_, errForeign := svc.Get(context.Background(), movie.ID, 2)
	_, errAbsent := svc.Get(context.Background(), 9999, 2)

	if !errors.Is(errForeign, ErrNotFound) || !errors.Is(errAbsent, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for both, got %v / %v", errForeign, errAbsent)
	}
	if errForeign.Error() != errAbsent.Error() {
		t.Fatal("foreign-owned and absent movies must be indistinguishable on reads")
	}

	if _, err := svc.Get(context.Background(), movie.ID, 1); err != nil {
		t.Fatalf("owner read: %v", err)
	}
}

func TestUpdateDistinguishesForbiddenFromNotFound(t *testing.T) {
	store := newFakeMovieStore()
	svc := NewMovieService(store)

	movie, err := svc.Create(context.Background(), 1, testMovieInput("Inception"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "Renamed"
	if _, err := svc.Update(context.Background(), movie.ID, 2, model.MovieUpdate{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner update: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), 9999, 2, model.MovieUpdate{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("absent update: expected ErrNotFound, got %v", err)
	}

	updated, err := svc.Update(context.Background(), movie.ID, 1, model.MovieUpdate{Title: &title})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Fatalf("title not updated: %+v", updated)
	}
}

func TestUpdateRejectsEmptyTitleAndBadDuration(t *testing.T) {
	store := newFakeMovieStore()
	svc := NewMovieService(store)

	movie, err := svc.Create(context.Background(), 1, testMovieInput("Inception"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	empty := "  "
	if _, err := svc.Update(context.Background(), movie.ID, 1, model.MovieUpdate{Title: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	zero := 0
	if _, err := svc.Update(context.Background(), movie.ID, 1, model.MovieUpdate{DurationMinutes: &zero}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteDistinguishesForbiddenFromNotFound(t *testing.T) {
	store := newFakeMovieStore()
	svc := NewMovieService(store)

	movie, err := svc.Create(context.Background(), 1, testMovieInput("Inception"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), movie.ID, 2); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), 9999, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("absent delete: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), movie.ID, 1); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestListMineScopesQueryByOwner(t *testing.T) {
	store := newFakeMovieStore()
	svc := NewMovieService(store)

	if _, err := svc.Create(context.Background(), 1, testMovieInput("Mine")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), 2, testMovieInput("Theirs")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := svc.ListMine(context.Background(), 1, model.MovieFilters{}, 1)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if store.listOwner != 1 {
		t.Fatalf("owner filter not pushed into the query, got %d", store.listOwner)
	}
	if res.TotalCount != 1 || len(res.Data) != 1 || res.Data[0].Title != "Mine" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestListEnvelopePagination(t *testing.T) {
	for _, tc := range []struct {
		total      int
		totalPages int
	}{
		{0, 0},
		{1, 1},
		{10, 1},
		{11, 2},
		{25, 3},
	} {
		env := listEnvelope(nil, 1, tc.total)
		if env.TotalPages != tc.totalPages {
			t.Errorf("total=%d: expected %d pages, got %d", tc.total, tc.totalPages, env.TotalPages)
		}
	}
}
