// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"fmt"
	"strings"

	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
)

// NotFound reports a required entity that does not exist.
func NotFound(entity Entity, guid string, fields ...lgerr.Attr) error {
	return lgerr.NotFound(string(entity), guid, fields...)
}

// BatchConflict describes why a multi-create was rejected.
type BatchConflict struct {
	Entity     Entity
	Existing   []string // GUIDs already stored.
	Duplicates []string // GUIDs repeated inside the batch.
	Missing    []string // Edge endpoints that do not exist.
}

// Empty reports whether no conflict was found.
func (c BatchConflict) Empty() bool {
	return len(c.Existing) == 0 && len(c.Duplicates) == 0 && len(c.Missing) == 0
}

// Err returns the aggregate conflict error, or nil when c is empty.
func (c BatchConflict) Err(tenantGUID, graphGUID string) error {
	if c.Empty() {
		return nil
	}

	var parts []string
	if len(c.Existing) > 0 {
		parts = append(parts, fmt.Sprintf("%d already exist", len(c.Existing)))
	}
	if len(c.Duplicates) > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicated in batch", len(c.Duplicates)))
	}
	if len(c.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d endpoint nodes missing", len(c.Missing)))
	}

	return lgerr.New(lgerr.CodeStoreBatchConflict,
		fmt.Sprintf("%s batch rejected: %s", c.Entity, strings.Join(parts, ", ")),
		lgerr.FieldTenantID(tenantGUID),
		lgerr.FieldGraphID(graphGUID),
		lgerr.FieldEntity(string(c.Entity)),
		lgerr.Field("existing", c.Existing),
		lgerr.Field("duplicates", c.Duplicates),
		lgerr.Field("missing", c.Missing),
	)
}

// Duplicates returns every GUID that appears more than once in guids, once each.
func Duplicates(guids []string) []string {
	seen := make(map[string]int, len(guids))
	var dups []string
	for _, g := range guids {
		seen[g]++
		if seen[g] == 2 {
			dups = append(dups, g)
		}
	}
	return dups
}
