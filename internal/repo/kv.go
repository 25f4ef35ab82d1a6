// Package repo contains all persistence access for the driver logbook.
// Each resource has its own file with an interface and a key-value
// implementation. No business logic lives here — only key naming, JSON
// mapping, and whole-value read-modify-write over storage.Store.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bruber/driverlog/internal/storage"
)

// Persisted key layout. Names are part of the on-disk format and must not
// change: backup files and existing data sets reference them.
const (
	keyTrips       = "corridas"
	keySafetyCopy  = "corridas_copia_seguranca"
	keyVehicle     = "veiculoConfig"
	keyUsers       = "usuarios_cadastrados"
	keySession     = "sessao_usuario"
	keyResetTokens = "tokens_reset"
)

// tripsKey returns the trip-list key for a user. An empty userID addresses
// the shared anonymous list, kept for data recorded before logging in.
func tripsKey(userID string) string {
	if userID == "" {
		return keyTrips
	}
	return keyTrips + "_" + userID
}

// safetyKey returns the key of the safety copy written alongside every
// trip-list save and read as a fallback when the primary key is missing.
func safetyKey(userID string) string {
	if userID == "" {
		return keySafetyCopy
	}
	return keySafetyCopy + "_" + userID
}

// loadJSON reads key and decodes it into a fresh T. ok is false when the key
// is absent or its value fails to decode: malformed stored data is logged
// and treated as missing, never surfaced as an error. The returned error is
// reserved for store I/O failures.
func loadJSON[T any](ctx context.Context, s storage.Store, key string) (T, bool, error) {
	var out T
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return out, false, err
	}
	if !ok {
		return out, false, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		slog.WarnContext(ctx, "discarding malformed stored value",
			"key", key, "error", err)
		var zero T
		return zero, false, nil
	}
	return out, true, nil
}

// saveJSON encodes v and writes it under key.
func saveJSON[T any](ctx context.Context, s storage.Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}
