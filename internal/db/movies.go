package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/movietrack/backend/internal/model"
)

const movieColumns = `id, title, original_title, description, poster_url, duration_minutes, budget, release_date, user_id, created_at, updated_at`

func scanMovie(row pgx.Row) (*model.Movie, error) {
	var m model.Movie
	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.OriginalTitle,
		&m.Description,
		&m.PosterURL,
		&m.DurationMinutes,
		&m.Budget,
		&m.ReleaseDate,
		&m.UserID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (db *Postgres) CreateMovie(ctx context.Context, userID int64, in model.MovieInput) (*model.Movie, error) {
	query := `
		INSERT INTO movies (title, original_title, description, poster_url, duration_minutes, budget, release_date, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + movieColumns
	return scanMovie(db.Pool.QueryRow(ctx, query,
		in.Title,
		in.OriginalTitle,
		in.Description,
		in.PosterURL,
		in.DurationMinutes,
		in.Budget,
		in.ReleaseDate,
		userID,
	))
}

func (db *Postgres) GetMovieByID(ctx context.Context, movieID int64) (*model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`
	return scanMovie(db.Pool.QueryRow(ctx, query, movieID))
}

// GetMovieForOwner scopes the lookup by owner in the query itself, so a movie
// owned by someone else is indistinguishable from one that does not exist.
func (db *Postgres) GetMovieForOwner(ctx context.Context, movieID, userID int64) (*model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1 AND user_id = $2`
	return scanMovie(db.Pool.QueryRow(ctx, query, movieID, userID))
}

func (db *Postgres) ListMovies(ctx context.Context, page, perPage int) ([]model.Movie, int, error) {
	query := `
		SELECT ` + movieColumns + `
		FROM movies
		ORDER BY release_date DESC
		LIMIT $1 OFFSET $2`

	rows, err := db.Pool.Query(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	movies, err := collectMovies(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// ListMoviesByOwner applies the owner filter inside the WHERE clause together
// with the optional search filters; it is never applied after the fact.
func (db *Postgres) ListMoviesByOwner(ctx context.Context, userID int64, f model.MovieFilters, page, perPage int) ([]model.Movie, int, error) {
	where, args := buildMovieWhere(userID, f)

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM movies
		%s
		ORDER BY release_date DESC
		LIMIT $%d OFFSET $%d`, movieColumns, where, len(args)+1, len(args)+2)

	rows, err := db.Pool.Query(ctx, listQuery, append(args, perPage, (page-1)*perPage)...)
	if err != nil {
		return nil, 0, err
	}
	movies, err := collectMovies(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM movies ` + where
	if err := db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

func buildMovieWhere(userID int64, f model.MovieFilters) (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{userID}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR original_title ILIKE $%d)", n, n))
	}
	if f.MaxDuration > 0 {
		args = append(args, f.MaxDuration)
		clauses = append(clauses, fmt.Sprintf("duration_minutes <= $%d", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		clauses = append(clauses, fmt.Sprintf("release_date >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		clauses = append(clauses, fmt.Sprintf("release_date <= $%d", len(args)))
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (db *Postgres) UpdateMovie(ctx context.Context, movieID int64, upd model.MovieUpdate) (*model.Movie, error) {
	query := `
		UPDATE movies
		SET title = COALESCE($2, title),
		    original_title = COALESCE($3, original_title),
		    description = COALESCE($4, description),
		    poster_url = COALESCE($5, poster_url),
		    duration_minutes = COALESCE($6, duration_minutes),
		    budget = COALESCE($7, budget),
		    release_date = COALESCE($8, release_date),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + movieColumns
	return scanMovie(db.Pool.QueryRow(ctx, query,
		movieID,
		upd.Title,
		upd.OriginalTitle,
		upd.Description,
		upd.PosterURL,
		upd.DurationMinutes,
		upd.Budget,
		upd.ReleaseDate,
	))
}

func (db *Postgres) DeleteMovie(ctx context.Context, movieID int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, movieID)
	return err
}

// ListMoviesPremieringBetween joins each premiering movie with its owner's
// email for the daily reminder job.
func (db *Postgres) ListMoviesPremieringBetween(ctx context.Context, from, to time.Time) ([]model.PremiereMovie, error) {
	query := `
		SELECT m.title, u.email
		FROM movies m
		JOIN users u ON u.id = m.user_id
		WHERE m.release_date >= $1 AND m.release_date <= $2`

	rows, err := db.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.PremiereMovie
	for rows.Next() {
		var p model.PremiereMovie
		if err := rows.Scan(&p.Title, &p.OwnerEmail); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func collectMovies(rows pgx.Rows) ([]model.Movie, error) {
	defer rows.Close()

	var list []model.Movie
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.OriginalTitle,
			&m.Description,
			&m.PosterURL,
			&m.DurationMinutes,
			&m.Budget,
			&m.ReleaseDate,
			&m.UserID,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, m)
	}

	if list == nil {
		list = []model.Movie{}
	}
	return list, rows.Err()
}
