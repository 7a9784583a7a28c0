// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/bale-scorer/models"
	"github.com/danielhkuo/bale-scorer/persist"
	"github.com/danielhkuo/bale-scorer/store"
	"github.com/danielhkuo/bale-scorer/testutil"
)

// legacyBale is a bale as older clients wrote it: object-shaped ends, no
// end count and a current end past the last.
func legacyBale() store.Document {
	return store.Document{
		"id":          "old-bale",
		"bale_number": 2,
		"current_end": 14,
		"archers": []any{
			map[string]any{
				"id":     "a1",
				"name":   "Robin",
				"target": "2A",
				"scores": map[string]any{
					"1": map[string]any{"arrow1": "X", "arrow2": 9, "arrow3": "M"},
				},
			},
		},
	}
}

func seed(t *testing.T, r *store.MemoryRemote, key string, v any) {
	t.Helper()
	doc, err := store.ToDocument(v)
	require.NoError(t, err)
	require.NoError(t, r.Set(context.Background(), key, doc, false))
}

func TestMigrateBales(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *store.MemoryRemote {
		r := store.NewMemoryRemote()
		current := testutil.NewTestBale(2)
		seed(t, r, persist.BaleKey("coach"), current)
		seed(t, r, persist.ArchivedBaleKey("coach", "old-bale"), legacyBale())
		seed(t, r, persist.ProfileKey("p1"), models.Profile{ID: "p1", Name: "Robin"})
		return r
	}

	t.Run("dry run writes nothing", func(t *testing.T) {
		r := setup(t)
		before, _, err := r.Get(ctx, persist.ArchivedBaleKey("coach", "old-bale"))
		require.NoError(t, err)

		rep, err := migrateBales(ctx, r, true)
		require.NoError(t, err)
		assert.Equal(t, 2, rep.Scanned)
		assert.Equal(t, []string{persist.ArchivedBaleKey("coach", "old-bale")}, rep.Rewritten)

		after, _, err := r.Get(ctx, persist.ArchivedBaleKey("coach", "old-bale"))
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("rewrites legacy shape", func(t *testing.T) {
		r := setup(t)

		rep, err := migrateBales(ctx, r, false)
		require.NoError(t, err)
		require.Len(t, rep.Rewritten, 1)

		doc, ok, err := r.Get(ctx, persist.ArchivedBaleKey("coach", "old-bale"))
		require.NoError(t, err)
		require.True(t, ok)

		var b models.Bale
		require.NoError(t, doc.Decode(&b))
		assert.Equal(t, models.TotalEnds, b.TotalEnds)
		assert.Equal(t, models.TotalEnds, b.CurrentEnd)
		assert.Equal(t, models.End{"X", "9", "M"}, b.Archers[0].Scores.End(1))
		assert.Len(t, b.Archers[0].Scores, models.TotalEnds)

		// stored ends are triples now
		archers := doc["archers"].([]any)
		scores := archers[0].(map[string]any)["scores"].(map[string]any)
		assert.Equal(t, []any{"X", "9", "M"}, scores["1"])

		// a second pass finds nothing to do
		rep, err = migrateBales(ctx, r, false)
		require.NoError(t, err)
		assert.Empty(t, rep.Rewritten)
	})

	t.Run("unreadable bale is skipped", func(t *testing.T) {
		r := setup(t)
		seed(t, r, persist.BaleKey("broken"), map[string]any{"archers": "not a list"})

		rep, err := migrateBales(ctx, r, false)
		require.NoError(t, err)
		assert.Equal(t, []string{persist.BaleKey("broken")}, rep.Skipped)
	})
}

func TestArchiveProfiles(t *testing.T) {
	ctx := context.Background()

	for _, del := range []bool{false, true} {
		r := store.NewMemoryRemote()
		seed(t, r, persist.ProfileKey("p1"), models.Profile{ID: "p1", Name: "Robin"})
		seed(t, r, persist.ProfileKey("p2"), models.Profile{ID: "p2", Name: "Marian"})

		n, err := archiveProfiles(ctx, r, "20250601T090000Z", del)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		_, ok, err := r.Get(ctx, persist.ArchivedProfileKey("20250601T090000Z", "p2"))
		require.NoError(t, err)
		assert.True(t, ok)

		_, ok, err = r.Get(ctx, persist.ProfileKey("p1"))
		require.NoError(t, err)
		assert.Equal(t, !del, ok, "original kept unless deleting")
	}
}

func TestArchiveBale(t *testing.T) {
	ctx := context.Background()

	newPersister := func(r store.RemoteStore) *persist.Persister {
		return persist.New(r, store.NewMemoryLocal(), persist.Options{Retries: 0}, nil)
	}

	t.Run("archives and clears", func(t *testing.T) {
		r := store.NewMemoryRemote()
		bale := testutil.NewTestBale(3)
		seed(t, r, persist.BaleKey("coach"), bale)
		seed(t, r, persist.AppStateKey("coach"), models.AppState{View: models.ViewScoring, BaleID: bale.ID})

		got, err := archiveBale(ctx, r, newPersister(r), "coach", true)
		require.NoError(t, err)
		assert.Equal(t, bale.ID, got.ID)

		_, ok, err := r.Get(ctx, persist.ArchivedBaleKey("coach", bale.ID))
		require.NoError(t, err)
		assert.True(t, ok)

		for _, key := range []string{persist.BaleKey("coach"), persist.AppStateKey("coach")} {
			_, ok, err := r.Get(ctx, key)
			require.NoError(t, err)
			assert.False(t, ok, key)
		}
	})

	t.Run("no bale", func(t *testing.T) {
		r := store.NewMemoryRemote()
		_, err := archiveBale(ctx, r, newPersister(r), "nobody", false)
		assert.ErrorIs(t, err, errNoBale)
	})
}

func TestApp(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "memory")

	t.Run("migrate on empty store", func(t *testing.T) {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out

		require.NoError(t, app.Run([]string{"balectl", "migrate", "--dry-run"}))
		assert.Contains(t, out.String(), "Scanned 0 bales")
	})

	t.Run("archive-bale needs a profile", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}
		app.ErrWriter = &bytes.Buffer{}

		assert.Error(t, app.Run([]string{"balectl", "archive-bale"}))
	})

	t.Run("archive-bale rejects bad profile key", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}

		err := app.Run([]string{"balectl", "--local-dir", t.TempDir(), "archive-bale", "--profile", "a/b"})
		assert.Error(t, err)
	})
}
