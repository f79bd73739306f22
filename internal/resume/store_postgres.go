package resume

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/offers-api/internal/db"
	"github.com/sells-group/offers-api/internal/offers"
)

// PostgresStore implements Store using pgx.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS users (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS resumes (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id         TEXT NOT NULL REFERENCES users(id),
	title           TEXT NOT NULL,
	role            TEXT NOT NULL,
	experience      TEXT NOT NULL,
	location        TEXT NOT NULL,
	url             TEXT NOT NULL,
	additional_info TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS resumes_star (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	resume_id  TEXT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (resume_id, user_id)
);

CREATE TABLE IF NOT EXISTS resumes_comment (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	resume_id  TEXT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users(id),
	body       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_resumes_user_id ON resumes(user_id);
CREATE INDEX IF NOT EXISTS idx_resumes_star_user_id ON resumes_star(user_id);
CREATE INDEX IF NOT EXISTS idx_resumes_comment_resume_id ON resumes_comment(resume_id);
`

// Migrate applies the resume schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "resume: migrate")
}

// resumeColumns is the decorated projection the listings select. $1 is the
// requesting user.
const resumeColumns = `
	r.id, r.user_id, COALESCE(u.name, ''), r.title, r.role, r.experience,
	r.location, r.url, r.additional_info, r.created_at,
	(SELECT COUNT(*) FROM resumes_star st WHERE st.resume_id = r.id),
	(SELECT COUNT(*) FROM resumes_comment cm WHERE cm.resume_id = r.id),
	EXISTS (SELECT 1 FROM resumes_star st WHERE st.resume_id = r.id AND st.user_id = $1)`

func collectResumes(ctx context.Context, pool db.Pool, query string, args ...any) ([]Resume, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "resume: query")
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		var r Resume
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.UserName, &r.Title, &r.Role, &r.Experience,
			&r.Location, &r.URL, &r.AdditionalInfo, &r.CreatedAt,
			&r.NumStars, &r.NumComments, &r.IsStarredByUser,
		); err != nil {
			return nil, eris.Wrap(err, "resume: scan")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "resume: iterate")
}

// Upsert creates or updates a resume owned by the given user.
func (s *PostgresStore) Upsert(ctx context.Context, userID string, in UpsertInput) (*Resume, error) {
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}

	r := Resume{
		ID:             id,
		UserID:         userID,
		Title:          in.Title,
		Role:           in.Role,
		Experience:     in.Experience,
		Location:       in.Location,
		URL:            in.URL,
		AdditionalInfo: in.AdditionalInfo,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO resumes (id, user_id, title, role, experience, location, url, additional_info)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   title = $3, role = $4, experience = $5, location = $6, url = $7, additional_info = $8
		 WHERE resumes.user_id = $2
		 RETURNING created_at`,
		id, userID, in.Title, in.Role, in.Experience, in.Location, in.URL, in.AdditionalInfo,
	).Scan(&r.CreatedAt)
	if err != nil {
		// The conflict update is guarded by ownership, so updating someone
		// else's resume yields no row.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, offers.BadRequestError("cannot update another user's resume")
		}
		return nil, eris.Wrapf(err, "resume: upsert %s", id)
	}
	return &r, nil
}

// ListUserCreated returns the user's own resumes, newest first.
func (s *PostgresStore) ListUserCreated(ctx context.Context, userID string) ([]Resume, error) {
	return collectResumes(ctx, s.pool,
		`SELECT`+resumeColumns+`
		 FROM resumes r
		 LEFT JOIN users u ON u.id = r.user_id
		 WHERE r.user_id = $1
		 ORDER BY r.created_at DESC`,
		userID,
	)
}

// ListUserStarred returns the resumes the user starred, most recently
// starred first.
func (s *PostgresStore) ListUserStarred(ctx context.Context, userID string) ([]Resume, error) {
	return collectResumes(ctx, s.pool,
		`SELECT`+resumeColumns+`
		 FROM resumes_star star
		 JOIN resumes r ON r.id = star.resume_id
		 LEFT JOIN users u ON u.id = r.user_id
		 WHERE star.user_id = $1
		 ORDER BY star.created_at DESC`,
		userID,
	)
}

// Star records a star; starring twice is a no-op.
func (s *PostgresStore) Star(ctx context.Context, userID, resumeID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO resumes_star (id, resume_id, user_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (resume_id, user_id) DO NOTHING`,
		uuid.New().String(), resumeID, userID,
	)
	return eris.Wrapf(err, "resume: star %s", resumeID)
}

// Unstar removes a star if present.
func (s *PostgresStore) Unstar(ctx context.Context, userID, resumeID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM resumes_star WHERE resume_id = $1 AND user_id = $2`,
		resumeID, userID,
	)
	return eris.Wrapf(err, "resume: unstar %s", resumeID)
}
