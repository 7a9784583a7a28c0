// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/bale-scorer/models"
	"github.com/danielhkuo/bale-scorer/persist"
	"github.com/danielhkuo/bale-scorer/store"
)

var (
	errCannotDelete = errors.New("remote store cannot delete documents")
	errNoBale       = errors.New("profile has no current bale")
)

// remote is what the jobs need from a backend.
type remote interface {
	store.RemoteStore
	store.Lister
}

func asRemote(r store.RemoteStore) (remote, error) {
	lr, ok := r.(remote)
	if !ok {
		return nil, persist.ErrListUnsupported
	}
	return lr, nil
}

type migrateReport struct {
	Scanned   int
	Rewritten []string
	Skipped   []string
}

// migrateBales rewrites every current and archived bale into the canonical
// shape. With dryRun nothing is written.
func migrateBales(ctx context.Context, r remote, dryRun bool) (migrateReport, error) {
	var rep migrateReport

	for _, prefix := range []string{persist.BalePrefix, persist.ArchivedBalePrefix} {
		docs, err := r.List(ctx, prefix)
		if err != nil {
			return rep, fmt.Errorf("failed to list %s: %w", prefix, err)
		}

		for _, key := range sortedKeys(docs) {
			rep.Scanned++
			doc := docs[key]

			var bale models.Bale
			if err := doc.Decode(&bale); err != nil {
				slog.Warn("skipping unreadable bale", "key", key, "error", err)
				rep.Skipped = append(rep.Skipped, key)
				continue
			}
			bale.Normalize()

			canonical, err := store.ToDocument(bale)
			if err != nil {
				return rep, fmt.Errorf("failed to encode %s: %w", key, err)
			}
			if cmp.Equal(doc, canonical) {
				continue
			}

			rep.Rewritten = append(rep.Rewritten, key)
			if dryRun {
				continue
			}
			if err := r.Set(ctx, key, canonical, false); err != nil {
				return rep, fmt.Errorf("failed to rewrite %s: %w", key, err)
			}
		}
	}
	return rep, nil
}

// archiveProfiles copies every profile under archive/profiles/<stamp>/.
// With del the originals are removed after the copy.
func archiveProfiles(ctx context.Context, r remote, stamp string, del bool) (int, error) {
	var deleter store.Deleter
	if del {
		d, ok := r.(store.Deleter)
		if !ok {
			return 0, errCannotDelete
		}
		deleter = d
	}

	docs, err := r.List(ctx, persist.ProfilePrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	n := 0
	for _, key := range sortedKeys(docs) {
		id := strings.TrimPrefix(key, persist.ProfilePrefix)
		if err := r.Set(ctx, persist.ArchivedProfileKey(stamp, id), docs[key], false); err != nil {
			return n, fmt.Errorf("failed to archive profile %s: %w", id, err)
		}
		if deleter != nil {
			if err := deleter.Delete(ctx, key); err != nil && !errors.Is(err, store.ErrNotFound) {
				return n, fmt.Errorf("failed to delete profile %s: %w", id, err)
			}
		}
		n++
	}
	return n, nil
}

// archiveBale moves the profile's current bale into the archive. With
// drop the current bale and app state are deleted so the next restore
// lands on setup.
func archiveBale(ctx context.Context, r store.RemoteStore, p *persist.Persister, profile string, drop bool) (models.Bale, error) {
	doc, ok, err := r.Get(ctx, persist.BaleKey(profile))
	if err != nil {
		return models.Bale{}, fmt.Errorf("failed to read bale: %w", err)
	}
	if !ok {
		return models.Bale{}, errNoBale
	}

	var bale models.Bale
	if err := doc.Decode(&bale); err != nil {
		return models.Bale{}, fmt.Errorf("failed to decode bale: %w", err)
	}
	bale.Normalize()

	if res := p.Archive(ctx, profile, bale); res != persist.ResultRemote {
		return bale, fmt.Errorf("archive write ended %s", res)
	}

	if drop {
		d, ok := r.(store.Deleter)
		if !ok {
			return bale, errCannotDelete
		}
		for _, key := range []string{persist.BaleKey(profile), persist.AppStateKey(profile)} {
			if err := d.Delete(ctx, key); err != nil && !errors.Is(err, store.ErrNotFound) {
				return bale, fmt.Errorf("failed to delete %s: %w", key, err)
			}
		}
	}
	return bale, nil
}

func sortedKeys(docs map[string]store.Document) []string {
	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
