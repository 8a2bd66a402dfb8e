package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"blmfeed/internal/model"
)

const rawSchema = `
CREATE TABLE IF NOT EXISTS feed_raw_rows (
  id UUID PRIMARY KEY,
  agent_ref TEXT NOT NULL UNIQUE,
  source TEXT NOT NULL DEFAULT '',
  attributes JSONB NOT NULL DEFAULT '{}',
  sync_status CHAR(1) NOT NULL DEFAULT 'S'
)`

type RawRepository struct {
	DB *sql.DB
}

func (r *RawRepository) EnsureSchema() error {
	_, err := r.DB.Exec(rawSchema)
	return err
}

// Save stores a decoded row and flags it for normalisation.
func (r *RawRepository) Save(p model.RawRow) error {
	attrs, err := json.Marshal(p.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes for %s: %w", p.AgentRef, err)
	}

	var exists bool
	err = r.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM feed_raw_rows WHERE agent_ref = $1)", p.AgentRef).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		_, err = r.DB.Exec(`
			UPDATE feed_raw_rows
			SET source = $1, attributes = $2, sync_status = 'S'
			WHERE agent_ref = $3
		`, p.Source, string(attrs), p.AgentRef)
	} else {
		_, err = r.DB.Exec(`
			INSERT INTO feed_raw_rows
			(id, agent_ref, source, attributes, sync_status)
			VALUES ($1, $2, $3, $4, 'S')
		`, p.ID, p.AgentRef, p.Source, string(attrs))
	}

	return err
}

// ListPending returns rows saved since their last normalisation.
func (r *RawRepository) ListPending() ([]model.RawRow, error) {
	rows, err := r.DB.Query(`
		SELECT id, agent_ref, source, attributes
		FROM feed_raw_rows
		WHERE sync_status = 'S'
		ORDER BY agent_ref
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.RawRow
	for rows.Next() {
		var p model.RawRow
		var attrs []byte
		if err := rows.Scan(&p.ID, &p.AgentRef, &p.Source, &attrs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(attrs, &p.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes for %s: %w", p.AgentRef, err)
		}
		list = append(list, p)
	}

	return list, rows.Err()
}

func (r *RawRepository) MarkAsProcessed(agentRef string) error {
	_, err := r.DB.Exec(`
		UPDATE feed_raw_rows
		SET sync_status = 'N'
		WHERE agent_ref = $1
	`, agentRef)
	return err
}
