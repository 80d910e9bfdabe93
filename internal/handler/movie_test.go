package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/movietrack/backend/internal/model"
	"github.com/movietrack/backend/internal/service"
)

type memMovieStore struct {
	movies map[int64]*model.Movie
	nextID int64
}

func newMemMovieStore() *memMovieStore {
	return &memMovieStore{movies: map[int64]*model.Movie{}, nextID: 1}
}

func (f *memMovieStore) CreateMovie(_ context.Context, userID int64, in model.MovieInput) (*model.Movie, error) {
	m := &model.Movie{
		ID:              f.nextID,
		Title:           in.Title,
		DurationMinutes: in.DurationMinutes,
		ReleaseDate:     in.ReleaseDate,
		PosterURL:       in.PosterURL,
		UserID:          userID,
	}
	f.movies[m.ID] = m
	f.nextID++
	return m, nil
}

func (f *memMovieStore) GetMovieByID(_ context.Context, movieID int64) (*model.Movie, error) {
	if m, ok := f.movies[movieID]; ok {
		return m, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *memMovieStore) GetMovieForOwner(_ context.Context, movieID, userID int64) (*model.Movie, error) {
	if m, ok := f.movies[movieID]; ok && m.UserID == userID {
		return m, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *memMovieStore) ListMovies(_ context.Context, page, perPage int) ([]model.Movie, int, error) {
	list := []model.Movie{}
	for _, m := range f.movies {
		list = append(list, *m)
	}
	return list, len(list), nil
}

func (f *memMovieStore) ListMoviesByOwner(_ context.Context, userID int64, _ model.MovieFilters, page, perPage int) ([]model.Movie, int, error) {
	list := []model.Movie{}
	for _, m := range f.movies {
		if m.UserID == userID {
			list = append(list, *m)
		}
	}
	return list, len(list), nil
}

func (f *memMovieStore) UpdateMovie(_ context.Context, movieID int64, upd model.MovieUpdate) (*model.Movie, error) {
	m, ok := f.movies[movieID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if upd.Title != nil {
		m.Title = *upd.Title
	}
	return m, nil
}

func (f *memMovieStore) DeleteMovie(_ context.Context, movieID int64) error {
	delete(f.movies, movieID)
	return nil
}

// newTestMovieRouter binds a fixed caller identity per request, standing in
// for the auth middleware.
func newTestMovieRouter(store *memMovieStore, callerID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMovieHandler(service.NewMovieService(store), nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(authUserKey, &model.AuthUser{ID: callerID, Email: "caller@x.com"})
	})
	movies := r.Group("/api/movies")
	movies.GET("", h.List)
	movies.GET("/my-movies", h.ListMine)
	movies.POST("", h.Create)
	movies.GET("/:id", h.Get)
	movies.PATCH("/:id", h.Update)
	movies.DELETE("/:id", h.Delete)
	return r
}

func doForm(r *gin.Engine, method, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	r.ServeHTTP(w, req)
	return w
}

func seedMovie(t *testing.T, store *memMovieStore, ownerID int64, title string) *model.Movie {
	t.Helper()
	m, err := store.CreateMovie(context.Background(), ownerID, model.MovieInput{
		Title:           title,
		DurationMinutes: 120,
		ReleaseDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed movie: %v", err)
	}
	return m
}

func TestCreateMovieValidatesForm(t *testing.T) {
	r := newTestMovieRouter(newMemMovieStore(), 1)

	w := doForm(r, http.MethodPost, "/api/movies", url.Values{
		"title":             {"Inception"},
		"durationInMinutes": {"not-a-number"},
		"releaseDate":       {"2026-03-01"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad duration: expected 400, got %d", w.Code)
	}

	w = doForm(r, http.MethodPost, "/api/movies", url.Values{
		"title":             {"Inception"},
		"durationInMinutes": {"148"},
		"releaseDate":       {"not-a-date"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date: expected 400, got %d", w.Code)
	}
}

func TestCreateMovieAssignsCaller(t *testing.T) {
	store := newMemMovieStore()
	r := newTestMovieRouter(store, 7)

	w := doForm(r, http.MethodPost, "/api/movies", url.Values{
		"title":             {"Inception"},
		"durationInMinutes": {"148"},
		"releaseDate":       {"2026-03-01"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if store.movies[1].UserID != 7 {
		t.Fatalf("movie not bound to caller: %+v", store.movies[1])
	}
}

func TestOwnershipAsymmetry(t *testing.T) {
	store := newMemMovieStore()
	movie := seedMovie(t, store, 1, "Inception")

	// Caller 2 is not the owner.
	r := newTestMovieRouter(store, 2)

	// Reads collapse foreign ownership into not-found.
	if w := doForm(r, http.MethodGet, "/api/movies/1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("foreign read: expected 404, got %d", w.Code)
	}
	if w := doForm(r, http.MethodGet, "/api/movies/999", nil); w.Code != http.StatusNotFound {
		t.Fatalf("absent read: expected 404, got %d", w.Code)
	}

	// Mutations keep permission and absence distinct.
	if w := doForm(r, http.MethodPatch, "/api/movies/1", url.Values{"title": {"Stolen"}}); w.Code != http.StatusForbidden {
		t.Fatalf("foreign update: expected 403, got %d", w.Code)
	}
	if w := doForm(r, http.MethodDelete, "/api/movies/1", nil); w.Code != http.StatusForbidden {
		t.Fatalf("foreign delete: expected 403, got %d", w.Code)
	}
	if w := doForm(r, http.MethodDelete, "/api/movies/999", nil); w.Code != http.StatusNotFound {
		t.Fatalf("absent delete: expected 404, got %d", w.Code)
	}

	if store.movies[movie.ID].Title != "Inception" {
		t.Fatal("foreign update must not modify the movie")
	}

	// The owner still has full access.
	owner := newTestMovieRouter(store, 1)
	if w := doForm(owner, http.MethodGet, "/api/movies/1", nil); w.Code != http.StatusOK {
		t.Fatalf("owner read: expected 200, got %d", w.Code)
	}
	if w := doForm(owner, http.MethodDelete, "/api/movies/1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("owner delete: expected 204, got %d", w.Code)
	}
}

func TestListMineOnlyReturnsOwnMovies(t *testing.T) {
	store := newMemMovieStore()
	seedMovie(t, store, 1, "Mine")
	seedMovie(t, store, 2, "Theirs")

	r := newTestMovieRouter(store, 1)
	w := doForm(r, http.MethodGet, "/api/movies/my-movies", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "Theirs") {
		t.Fatalf("foreign movie leaked into my-movies: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Mine") {
		t.Fatalf("own movie missing: %s", w.Body.String())
	}
}

func TestPosterUploadRequiresStorage(t *testing.T) {
	// Handler built without a storage client; sending a poster must fail
	// clearly instead of dropping the file.
	r := newTestMovieRouter(newMemMovieStore(), 1)

	body := &strings.Builder{}
	boundary := "testboundary"
	body.WriteString("--" + boundary + "\r\n")
	body.WriteString("Content-Disposition: form-data; name=\"title\"\r\n\r\nInception\r\n")
	body.WriteString("--" + boundary + "\r\n")
	body.WriteString("Content-Disposition: form-data; name=\"durationInMinutes\"\r\n\r\n148\r\n")
	body.WriteString("--" + boundary + "\r\n")
	body.WriteString("Content-Disposition: form-data; name=\"releaseDate\"\r\n\r\n2026-03-01\r\n")
	body.WriteString("--" + boundary + "\r\n")
	body.WriteString("Content-Disposition: form-data; name=\"poster\"; filename=\"p.jpg\"\r\n")
	body.WriteString("Content-Type: image/jpeg\r\n\r\nfakejpegdata\r\n")
	body.WriteString("--" + boundary + "--\r\n")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/movies", strings.NewReader(body.String()))
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
