package model

import "time"

type Movie struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	OriginalTitle   *string   `json:"originalTitle"`
	Description     *string   `json:"description"`
	PosterURL       *string   `json:"posterUrl"`
	DurationMinutes int       `json:"durationInMinutes"`
	Budget          *float64  `json:"budget"`
	ReleaseDate     time.Time `json:"releaseDate"`
	UserID          int64     `json:"userId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// MovieInput is a fully parsed create payload. The handler converts the
// multipart form fields before the service ever sees them.
type MovieInput struct {
	Title           string
	OriginalTitle   *string
	Description     *string
	PosterURL       *string
	DurationMinutes int
	Budget          *float64
	ReleaseDate     time.Time
}

// MovieUpdate carries only the fields present in the request; nil means
// "leave unchanged".
type MovieUpdate struct {
	Title           *string
	OriginalTitle   *string
	Description     *string
	PosterURL       *string
	DurationMinutes *int
	Budget          *float64
	ReleaseDate     *time.Time
}

type MovieFilters struct {
	Search      string
	MaxDuration int
	StartDate   *time.Time
	EndDate     *time.Time
}

type MovieListResponse struct {
	Data        []Movie `json:"data"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
	TotalCount  int     `json:"totalCount"`
}

// PremiereMovie is the projection the reminder job works with.
type PremiereMovie struct {
	Title      string
	OwnerEmail string
}
