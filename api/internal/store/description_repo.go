package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// DefaultMaxAge matches the Redis TTL used when no age is configured.
const DefaultMaxAge = 7 * 24 * time.Hour

// DescriptionRepo caches rendered descriptions in Postgres, keyed by describe.CacheKey.
type DescriptionRepo struct {
	DB     *sql.DB
	MaxAge time.Duration
}

// NewDescriptionRepo uses DefaultMaxAge when maxAge is not positive.
func NewDescriptionRepo(db *sql.DB, maxAge time.Duration) *DescriptionRepo {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &DescriptionRepo{DB: db, MaxAge: maxAge}
}

const createDescriptionsCache = `
create table if not exists descriptions_cache(
	cache_key  text primary key,
	text       text not null,
	created_at timestamptz not null default now()
)`

func (r *DescriptionRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, createDescriptionsCache)
	return err
}

// Get returns a cached description; an entry older than MaxAge is a miss.
func (r *DescriptionRepo) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `select text, created_at from descriptions_cache where cache_key=$1`
	var (
		text string
		ts   time.Time
	)
	if err := r.DB.QueryRowContext(ctx, q, key).Scan(&text, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	if r.stale(ts, time.Now()) {
		return "", false, nil
	}
	return text, true, nil
}

func (r *DescriptionRepo) stale(created, now time.Time) bool {
	maxAge := r.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return now.Sub(created) > maxAge
}

func (r *DescriptionRepo) Put(ctx context.Context, key, text string) error {
	const q = `
insert into descriptions_cache(cache_key, text)
values ($1,$2)
on conflict (cache_key)
do update set text=excluded.text, created_at=now()`
	_, err := r.DB.ExecContext(ctx, q, key, text)
	return err
}
