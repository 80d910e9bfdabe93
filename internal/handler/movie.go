package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/movietrack/backend/internal/model"
	"github.com/movietrack/backend/internal/service"
)

// PosterStorage uploads a poster image and returns its public URL.
type PosterStorage interface {
	UploadPoster(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

type MovieHandler struct {
	svc     *service.MovieService
	storage PosterStorage
}

func NewMovieHandler(svc *service.MovieService, storage PosterStorage) *MovieHandler {
	return &MovieHandler{svc: svc, storage: storage}
}

// List godoc
// @Summary List all movies, paginated
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (10 per page)"
// @Success 200 {object} model.MovieListResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/movies [get]
func (h *MovieHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))

	res, err := h.svc.ListPublic(c.Request.Context(), page)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListMine godoc
// @Summary List the caller's movies with filters
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param search query string false "Title or original title contains"
// @Param duration query int false "Maximum duration in minutes"
// @Param startDate query string false "Release date from (YYYY-MM-DD)"
// @Param endDate query string false "Release date to (YYYY-MM-DD)"
// @Success 200 {object} model.MovieListResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/movies/my-movies [get]
func (h *MovieHandler) ListMine(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	filters := model.MovieFilters{Search: c.Query("search")}
	if d, err := strconv.Atoi(c.Query("duration")); err == nil && d > 0 {
		filters.MaxDuration = d
	}
	if t, err := parseDate(c.Query("startDate")); err == nil {
		filters.StartDate = &t
	}
	if t, err := parseDate(c.Query("endDate")); err == nil {
		filters.EndDate = &t
	}

	res, err := h.svc.ListMine(c.Request.Context(), user.ID, filters, page)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Create godoc
// @Summary Create a movie owned by the caller
// @Tags movies
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param originalTitle formData string false "Original title"
// @Param description formData string false "Description"
// @Param durationInMinutes formData int true "Duration in minutes"
// @Param budget formData number false "Budget"
// @Param releaseDate formData string true "Release date (YYYY-MM-DD)"
// @Param poster formData file false "Poster image"
// @Success 201 {object} model.Movie
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/movies [post]
func (h *MovieHandler) Create(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	duration, err := strconv.Atoi(c.PostForm("durationInMinutes"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration"})
		return
	}
	releaseDate, err := parseDate(c.PostForm("releaseDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid release date"})
		return
	}

	in := model.MovieInput{
		Title:           c.PostForm("title"),
		OriginalTitle:   optionalForm(c, "originalTitle"),
		Description:     optionalForm(c, "description"),
		DurationMinutes: duration,
		ReleaseDate:     releaseDate,
	}
	if raw, ok := c.GetPostForm("budget"); ok && raw != "" {
		budget, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget"})
			return
		}
		in.Budget = &budget
	}

	if url, ok := h.uploadPoster(c); ok {
		in.PosterURL = url
	} else if c.IsAborted() {
		return
	}

	movie, err := h.svc.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, movie)
}

// Get godoc
// @Summary Get one of the caller's movies
// @Description Movies owned by other users answer 404, same as absent ids.
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Movie ID"
// @Success 200 {object} model.Movie
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/movies/{id} [get]
func (h *MovieHandler) Get(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	movie, err := h.svc.Get(c.Request.Context(), movieID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not found or no permission"})
			return
		}
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

// Update godoc
// @Summary Update one of the caller's movies
// @Description Updating someone else's movie answers 403; a missing id answers 404.
// @Tags movies
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Movie ID"
// @Success 200 {object} model.Movie
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/movies/{id} [patch]
func (h *MovieHandler) Update(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	upd := model.MovieUpdate{
		Title:         optionalForm(c, "title"),
		OriginalTitle: optionalForm(c, "originalTitle"),
		Description:   optionalForm(c, "description"),
	}
	if raw, ok := c.GetPostForm("durationInMinutes"); ok {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration"})
			return
		}
		upd.DurationMinutes = &duration
	}
	if raw, ok := c.GetPostForm("budget"); ok && raw != "" {
		budget, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget"})
			return
		}
		upd.Budget = &budget
	}
	if raw, ok := c.GetPostForm("releaseDate"); ok {
		releaseDate, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid release date"})
			return
		}
		upd.ReleaseDate = &releaseDate
	}

	if url, ok := h.uploadPoster(c); ok {
		upd.PosterURL = url
	} else if c.IsAborted() {
		return
	}

	movie, err := h.svc.Update(c.Request.Context(), movieID, user.ID, upd)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

// Delete godoc
// @Summary Delete one of the caller's movies
// @Tags movies
// @Security BearerAuth
// @Param id path int true "Movie ID"
// @Success 204
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/movies/{id} [delete]
func (h *MovieHandler) Delete(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), movieID, user.ID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// uploadPoster handles the optional "poster" form file. It returns the
// uploaded URL when a file was present, or (nil, false) when there was none.
// On upload failure it writes the error response and aborts the context.
func (h *MovieHandler) uploadPoster(c *gin.Context) (*string, bool) {
	fileHeader, err := c.FormFile("poster")
	if err != nil {
		return nil, false
	}

	if h.storage == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "poster uploads are not configured"})
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid poster file"})
		return nil, false
	}
	defer file.Close()

	url, err := h.storage.UploadPoster(c.Request.Context(), fileHeader.Filename, posterContentType(fileHeader), file)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upload poster"})
		return nil, false
	}
	return &url, true
}

func posterContentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func optionalForm(c *gin.Context, key string) *string {
	if value, ok := c.GetPostForm(key); ok {
		return &value
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
