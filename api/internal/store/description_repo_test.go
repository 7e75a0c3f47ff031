package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DescriptionRepo {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping Postgres test: TEST_DATABASE_URL not set")
	}
	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewDescriptionRepo(db, time.Hour)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestDescriptionRepo_PutGet(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	key := uuid.NewString()

	_, ok, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Put(ctx, key, "Un gatto."))
	require.NoError(t, repo.Put(ctx, key, "Un gatto nero."))

	text, ok, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Un gatto nero.", text)
}

func TestDescriptionRepo_Stale(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	key := uuid.NewString()

	_, err := repo.DB.ExecContext(ctx,
		`insert into descriptions_cache(cache_key, text, created_at) values ($1, $2, now() - interval '2 hours')`, key, "vecchio")
	require.NoError(t, err)

	_, ok, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSafeDSNSummary(t *testing.T) {
	assert.Equal(t, "host=db port=5433 db=descrivi user=bot",
		SafeDSNSummary("postgres://bot:secret@db:5433/descrivi?sslmode=disable"))
	assert.Equal(t, "host=db port=5432 db=descrivi user=bot", SafeDSNSummary("postgres://bot:secret@db/descrivi?sslmode=disable"))
	assert.Equal(t, "host=db port=5432 db=descrivi user=bot",
		SafeDSNSummary("host=db user=bot password=secret dbname=descrivi sslmode=disable"))
	assert.NotContains(t, SafeDSNSummary("postgres://bot:secret@db:5432/descrivi?sslmode=disable"), "secret")
	assert.Equal(t, "dsn: parse error", SafeDSNSummary("postgres://bot:secret@db:notaport/descrivi"))
}

func TestDescriptionRepo_MaxAgeDefault(t *testing.T) {
	for _, age := range []time.Duration{0, -time.Second} {
		assert.Equal(t, DefaultMaxAge, NewDescriptionRepo(nil, age).MaxAge)
	}
	assert.Equal(t, time.Hour, NewDescriptionRepo(nil, time.Hour).MaxAge)

	now := time.Now()
	zero := &DescriptionRepo{}
	assert.False(t, zero.stale(now.Add(-DefaultMaxAge+time.Minute), now))
	assert.True(t, zero.stale(now.Add(-DefaultMaxAge-time.Minute), now), "zero MaxAge still expires")
}
