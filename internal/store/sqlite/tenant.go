// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"context"
	"database/sql"
	"iter"

	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
)

const tenantColumns = `t.guid, t.name, t.active, t.created_utc, t.last_update_utc`

func scanTenant(row rowScanner) (*store.Tenant, error) {
	var t store.Tenant
	var created, updated string
	if err := row.Scan(&t.GUID, &t.Name, &t.Active, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if t.CreatedUTC, t.LastUpdateUTC, err = parseTimes(created, updated); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTenant inserts tenant, or returns the stored tenant when the GUID exists.
func (r *Repository) CreateTenant(ctx context.Context, tenant *store.Tenant) (*store.Tenant, error) {
	if tenant == nil {
		return nil, lgerr.InvalidInput("tenant is required")
	}
	if err := tenant.Validate(); err != nil {
		return nil, err
	}

	unlock := r.lockCreate()
	defer unlock()

	existing, err := r.ReadTenant(ctx, tenant.GUID)
	if err != nil || existing != nil {
		return existing, err
	}

	t := *tenant
	stamp(&t.CreatedUTC, &t.LastUpdateUTC)

	err = r.withTx(ctx, func(tx *txn) error {
		const q = `INSERT INTO tenants (guid, name, active, created_utc, last_update_utc) VALUES (?, ?, ?, ?, ?)`
		_, err := tx.exec(q, t.GUID, t.Name, t.Active, formatTime(t.CreatedUTC), formatTime(t.LastUpdateUTC))
		return err
	})
	if err != nil {
		return nil, lgerr.With(err, lgerr.FieldTenantID(t.GUID))
	}
	r.obs.Created(string(store.EntityTenant), 1)

	return r.ReadTenant(ctx, t.GUID)
}

// ReadTenant returns the tenant or nil when absent.
func (r *Repository) ReadTenant(ctx context.Context, guid string) (*store.Tenant, error) {
	var out *store.Tenant
	err := r.query(ctx, `SELECT `+tenantColumns+` FROM tenants t WHERE t.guid = ?`, []any{guid},
		func(rows *sql.Rows) error {
			t, err := scanTenant(rows)
			out = t
			return err
		})
	return out, err
}

// ReadTenants enumerates tenants. Tenants carry no labels, tags or data, so
// only Order and Skip apply.
func (r *Repository) ReadTenants(ctx context.Context, q store.ListQuery) iter.Seq2[*store.Tenant, error] {
	if err := q.Validate(store.EntityTenant); err != nil {
		return store.Fail[*store.Tenant](err)
	}
	if len(q.Labels) > 0 || len(q.Tags) > 0 || q.Filter != nil {
		return store.Fail[*store.Tenant](lgerr.InvalidInput("list query: tenants support only Order and Skip"))
	}

	spec := listSpec{table: "tenants", alias: "t", columns: tenantColumns}
	return paginate(ctx, r.pageSize, q.Skip, func(ctx context.Context, limit, offset int) ([]*store.Tenant, error) {
		return listPage(ctx, r, spec, q, limit, offset, scanTenant)
	})
}

// UpdateTenant replaces the tenant's name and active flag.
func (r *Repository) UpdateTenant(ctx context.Context, tenant *store.Tenant) (*store.Tenant, error) {
	if tenant == nil {
		return nil, lgerr.InvalidInput("tenant is required")
	}
	if err := tenant.Validate(); err != nil {
		return nil, err
	}

	err := r.withTx(ctx, func(tx *txn) error {
		const q = `UPDATE tenants SET name = ?, active = ?, last_update_utc = ? WHERE guid = ?`
		n, err := tx.affected(q, tenant.Name, tenant.Active, formatTime(now()), tenant.GUID)
		if err != nil {
			return err
		}
		if n == 0 {
			return store.NotFound(store.EntityTenant, tenant.GUID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.ReadTenant(ctx, tenant.GUID)
}

// DeleteTenant removes the tenant. With force every graph, node, edge and
// metadata row of the tenant goes too; without it, remaining graphs are a conflict.
func (r *Repository) DeleteTenant(ctx context.Context, guid string, force bool) error {
	return r.withTx(ctx, func(tx *txn) error {
		exists, err := tx.count(`SELECT COUNT(*) FROM tenants WHERE guid = ?`, guid)
		if err != nil {
			return err
		}
		if exists == 0 {
			return store.NotFound(store.EntityTenant, guid)
		}

		graphs, err := tx.count(`SELECT COUNT(*) FROM graphs WHERE tenant_guid = ?`, guid)
		if err != nil {
			return err
		}
		if graphs > 0 && !force {
			return lgerr.New(lgerr.CodeStoreTenantNotEmpty, "tenant still owns graphs",
				lgerr.FieldTenantID(guid), lgerr.Field("graphs", graphs))
		}

		for _, table := range []string{"tags", "labels", "vectors", "edges", "nodes", "graphs"} {
			if _, err := tx.exec(`DELETE FROM `+table+` WHERE tenant_guid = ?`, guid); err != nil {
				return err
			}
		}
		_, err = tx.exec(`DELETE FROM tenants WHERE guid = ?`, guid)
		return err
	})
}

// TenantExists reports whether the tenant is stored.
func (r *Repository) TenantExists(ctx context.Context, guid string) (bool, error) {
	t, err := r.ReadTenant(ctx, guid)
	return t != nil, err
}
