// Package kvstore implements the repositories on top of a kv.Store. Each
// collection is one JSON blob, and every read-modify-write of a collection
// runs under that repository's mutex.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/kv"
)

const (
	usersKey      = "fitmatch_db_users"
	sessionPrefix = "fitmatch_session_"
	matchesPrefix = "fitmatch_matches_"
	matchPrefix   = "fitmatch_match_"
	chatsPrefix   = "fitmatch_chats_"
)

func sessionKey(id string) string   { return sessionPrefix + id }
func userIndexKey(id string) string { return matchesPrefix + id }
func matchKey(pair string) string   { return matchPrefix + pair }
func chatKey(pair string) string    { return chatsPrefix + pair }

// readJSON decodes key into v and reports whether the key existed.
func readJSON(ctx context.Context, store kv.Store, key string, v any) (bool, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func writeJSON(ctx context.Context, store kv.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
