// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"

	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/sigil-dev/litegraph/pkg/expr"
)

// formatTime serialises a time for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(expr.TimestampFormat)
}

// parseTime deserialises a time string stored in the database.
func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(expr.TimestampFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, lgerr.Wrapf(err, lgerr.CodeStoreDataInvalid, "parsing timestamp %q", s)
	}
	return t, nil
}

func parseTimes(created, updated string) (time.Time, time.Time, error) {
	c, err := parseTime(created)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	u, err := parseTime(updated)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return c, u, nil
}

// encodeData serialises an opaque data document. nil is stored as NULL.
func encodeData(data any) (sql.NullString, error) {
	switch d := data.(type) {
	case nil:
		return sql.NullString{}, nil
	case json.RawMessage:
		if !json.Valid(d) {
			return sql.NullString{}, lgerr.New(lgerr.CodeStoreInvalidInput, "data is not valid JSON")
		}
		return sql.NullString{String: string(d), Valid: true}, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return sql.NullString{}, lgerr.Wrap(err, lgerr.CodeStoreInvalidInput, "marshalling data")
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

// decodeData turns a stored document back into a generic value. A corrupt
// document is logged and read as nil.
func decodeData(logger *slog.Logger, guid string, raw sql.NullString) any {
	if !raw.Valid {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw.String), &v); err != nil {
		logger.Warn("failed to unmarshal data document",
			slog.String("guid", guid),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return v
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func encodeEmbedding(v []float32) ([]byte, error) {
	blob, err := sqlite_vec.SerializeFloat32(v)
	if err != nil {
		return nil, lgerr.Wrap(err, lgerr.CodeStoreInvalidInput, "serializing embedding")
	}
	return blob, nil
}

// decodeEmbedding reverses sqlite_vec.SerializeFloat32 (little-endian float32).
func decodeEmbedding(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, lgerr.Errorf(lgerr.CodeStoreDataInvalid, "embedding blob length %d is not a multiple of 4", len(blob))
	}
	out := make([]float32, len(blob)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return out, nil
}
