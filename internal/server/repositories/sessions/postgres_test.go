package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/celestia-oracle/celestia/internal/common"
	"github.com/celestia-oracle/celestia/internal/server/models"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE chat_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			session_key TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, session_key)
		);`)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE chat_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);`)
	require.NoError(t, err)
	return db
}

func TestGetOrCreate_ReusesExistingRow(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, 1, "sess-a")
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := repo.GetOrCreate(ctx, 1, "sess-a")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "same (user, key) must resolve to one session row")
}

func TestGet_ScopedToOwner(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, 1, "shared-key")
	require.NoError(t, err)

	_, err = repo.Get(ctx, 2, "shared-key")
	require.ErrorIs(t, err, common.ErrorNotFound, "another user's key must not resolve")
}

func TestCrossAccountIsolation(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	alice, err := repo.GetOrCreate(ctx, 1, "shared-key")
	require.NoError(t, err)
	bob, err := repo.GetOrCreate(ctx, 2, "shared-key")
	require.NoError(t, err)
	require.NotEqual(t, alice.ID, bob.ID)

	_, err = repo.AppendMessage(ctx, alice.ID, models.RoleUser, "alice asks")
	require.NoError(t, err)
	_, err = repo.AppendMessage(ctx, bob.ID, models.RoleUser, "bob asks")
	require.NoError(t, err)

	aliceMsgs, err := repo.Recent(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, aliceMsgs, 1)
	require.Equal(t, "alice asks", aliceMsgs[0].Content)

	bobMsgs, err := repo.Recent(ctx, bob.ID, 10)
	require.NoError(t, err)
	require.Len(t, bobMsgs, 1)
	require.Equal(t, "bob asks", bobMsgs[0].Content)
}

func TestRecent_WindowIsBoundedAndOldestFirst(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	sess, err := repo.GetOrCreate(ctx, 1, "sess-window")
	require.NoError(t, err)

	for i := 1; i <= 25; i++ {
		_, err := repo.AppendMessage(ctx, sess.ID, models.RoleUser, fmt.Sprintf("msg-%02d", i))
		require.NoError(t, err)
	}

	window, err := repo.Recent(ctx, sess.ID, 10)
	require.NoError(t, err)
	require.Len(t, window, 10, "window size must be respected")

	// the 10 most recent, oldest first: msg-16 .. msg-25
	for i, m := range window {
		require.Equal(t, fmt.Sprintf("msg-%02d", 16+i), m.Content)
	}
}

func TestClearMessages_SessionSurvives(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	sess, err := repo.GetOrCreate(ctx, 1, "sess-clear")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := repo.AppendMessage(ctx, sess.ID, models.RoleUser, "hello")
		require.NoError(t, err)
	}

	require.NoError(t, repo.ClearMessages(ctx, sess.ID))

	window, err := repo.Recent(ctx, sess.ID, 10)
	require.NoError(t, err)
	require.Empty(t, window)

	// identifier still resolves, history starts empty
	again, err := repo.Get(ctx, 1, "sess-clear")
	require.NoError(t, err)
	require.Equal(t, sess.ID, again.ID)

	_, err = repo.AppendMessage(ctx, sess.ID, models.RoleUser, "after clear")
	require.NoError(t, err)
	window, err = repo.Recent(ctx, sess.ID, 10)
	require.NoError(t, err)
	require.Len(t, window, 1)
	require.Equal(t, "after clear", window[0].Content)
}
