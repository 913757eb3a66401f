// Package store persists the session tracker's node-table cache to a
// SQLite database, so gateway/node identity survives an observer restart.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bitmill/pvtap/internal/tap"
)

const schema = `
CREATE TABLE IF NOT EXISTS node_bindings (
	gateway_id   INTEGER NOT NULL,
	pv_node_id   INTEGER NOT NULL,
	long_address TEXT NOT NULL,
	updated_at   INTEGER NOT NULL,
	PRIMARY KEY (gateway_id, pv_node_id)
);
`

// Store wraps a SQLite-backed node_bindings table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and ensures the
// node_bindings table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBinding upserts one (gateway, node) -> long address binding.
func (s *Store) SaveBinding(gateway tap.GatewayID, node tap.PVNodeID, addr tap.PVLongAddress) error {
	_, err := s.db.Exec(
		`INSERT INTO node_bindings (gateway_id, pv_node_id, long_address, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (gateway_id, pv_node_id) DO UPDATE SET long_address = excluded.long_address, updated_at = excluded.updated_at`,
		uint16(gateway), uint16(node), addr.String(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store: save binding: %w", err)
	}
	return nil
}

// Binding is one persisted (gateway, node, long address) row.
type Binding struct {
	Gateway     tap.GatewayID
	Node        tap.PVNodeID
	LongAddress string
}

// LoadBindings returns every persisted binding, for seeding the session
// tracker's node-table cache at startup.
func (s *Store) LoadBindings() ([]Binding, error) {
	rows, err := s.db.Query(`SELECT gateway_id, pv_node_id, long_address FROM node_bindings`)
	if err != nil {
		return nil, fmt.Errorf("store: load bindings: %w", err)
	}
	defer rows.Close()

	var out []Binding
	for rows.Next() {
		var gw, node uint16
		var addr string
		if err := rows.Scan(&gw, &node, &addr); err != nil {
			return nil, fmt.Errorf("store: scan binding: %w", err)
		}
		out = append(out, Binding{Gateway: tap.GatewayID(gw), Node: tap.PVNodeID(node), LongAddress: addr})
	}
	return out, rows.Err()
}
