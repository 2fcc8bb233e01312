package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "Alice", "Seoul Gangnam"))

	location, err := s.Get(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Seoul Gangnam", location)
}

func TestSaveOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "Alice", "Seoul Gangnam"))
	require.NoError(t, s.Save(ctx, "Alice", "Busan"))

	location, err := s.Get(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Busan", location)

	users, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "overwrite must not create a second row")
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetIsCaseSensitive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "Alice", "Seoul"))

	_, err := s.Get(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "Alice", "서울"))
	require.NoError(t, s.Save(ctx, "Bob", "부산"))
	require.NoError(t, s.Save(ctx, "Carol", "대전"))

	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []User{
		{Name: "Carol", Location: "대전"},
		{Name: "Bob", Location: "부산"},
		{Name: "Alice", Location: "서울"},
	}, users)

	// Re-saving bumps the user to the front.
	require.NoError(t, s.Save(ctx, "Alice", "제주"))

	users, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "제주", users[0].Location)
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)

	users, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestListIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "Alice", "서울"))
	require.NoError(t, s.Save(ctx, "Bob", "부산"))

	first, err := s.List(ctx)
	require.NoError(t, err)

	second, err := s.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGetAfterClose(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// A storage-engine fault surfaces as an error, not ErrNotFound.
	_, err = s.Get(context.Background(), "Alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
