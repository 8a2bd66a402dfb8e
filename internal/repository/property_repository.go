package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"blmfeed/internal/property"
)

const propertySchema = `
CREATE TABLE IF NOT EXISTS properties (
  id UUID PRIMARY KEY,
  agent_ref TEXT NOT NULL UNIQUE,
  branch_id TEXT NOT NULL DEFAULT '',
  status_id TEXT NOT NULL DEFAULT '',
  trans_type_id TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL DEFAULT '',
  features TEXT[] NOT NULL DEFAULT '{}',
  images TEXT[] NOT NULL DEFAULT '{}',
  epcs TEXT[] NOT NULL DEFAULT '{}',
  hips TEXT[] NOT NULL DEFAULT '{}',
  attributes JSONB NOT NULL DEFAULT '{}',
  document JSONB NOT NULL DEFAULT '{}',
  content_hash TEXT NOT NULL DEFAULT '',
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PgxConn is the part of *pgxpool.Pool the repository uses.
type PgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PropertyRepository struct {
	DB     PgxConn
	Layout property.Layout
}

func (r *PropertyRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.Exec(ctx, propertySchema); err != nil {
		return err
	}
	_, err := r.DB.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_properties_branch ON properties(branch_id)`)
	return err
}

// Save upserts a record by agent ref.
func (r *PropertyRepository) Save(ctx context.Context, rec *property.Record) error {
	if rec.AgentRef() == "" {
		return errors.New("record has no agent ref")
	}
	attrs, err := json.Marshal(rec.Attributes())
	if err != nil {
		return err
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO properties
		(id, agent_ref, branch_id, status_id, trans_type_id, price, features, images, epcs, hips, attributes, document, content_hash, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
		ON CONFLICT (agent_ref) DO UPDATE SET
			branch_id = EXCLUDED.branch_id,
			status_id = EXCLUDED.status_id,
			trans_type_id = EXCLUDED.trans_type_id,
			price = EXCLUDED.price,
			features = EXCLUDED.features,
			images = EXCLUDED.images,
			epcs = EXCLUDED.epcs,
			hips = EXCLUDED.hips,
			attributes = EXCLUDED.attributes,
			document = EXCLUDED.document,
			content_hash = EXCLUDED.content_hash,
			updated_at = now()
	`, uuid.New(), rec.AgentRef(), rec.BranchID(), rec.StatusID(), rec.TransTypeID(), rec.Price(),
		rec.Features(), rec.Images(), rec.EpcEntries(), rec.FloorplanEntries(),
		string(attrs), string(doc), rec.Hash())
	if err != nil {
		return fmt.Errorf("save property %s: %w", rec.AgentRef(), err)
	}
	return nil
}

// Get rebuilds a stored record. The bool is false when nothing is stored.
func (r *PropertyRepository) Get(ctx context.Context, agentRef string) (*property.Record, bool, error) {
	var raw []byte
	err := r.DB.QueryRow(ctx, `SELECT attributes FROM properties WHERE agent_ref = $1`, agentRef).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var attrs map[string]string
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, false, fmt.Errorf("decode attributes for %s: %w", agentRef, err)
	}
	return property.New(attrs, property.WithLayout(r.Layout)), true, nil
}

func (r *PropertyRepository) Delete(ctx context.Context, agentRef string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM properties WHERE agent_ref = $1`, agentRef)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
