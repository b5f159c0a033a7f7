package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UTD-JLA/odict/pkg/orderedmap"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMappingNotFound = errors.New("mapping not found")

const schema = `
CREATE TABLE IF NOT EXISTS mappings (
	name       TEXT PRIMARY KEY,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS mapping_entries (
	mapping  TEXT NOT NULL REFERENCES mappings (name) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	key      TEXT NOT NULL,
	value    JSONB,
	PRIMARY KEY (mapping, position),
	UNIQUE (mapping, key)
);`

// MappingRepository persists named string-keyed mappings together with their
// order. Values are stored as JSON.
type MappingRepository struct {
	pool *pgxpool.Pool
}

func NewMappingRepository(pool *pgxpool.Pool) *MappingRepository {
	return &MappingRepository{pool: pool}
}

func (r *MappingRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

// Save replaces whatever was stored under name with the entries of m.
func (r *MappingRepository) Save(ctx context.Context, name string, m orderedmap.EnumerableMapping[string, any]) error {
	slog.Debug("saving mapping", slog.String("name", name), slog.Int("len", m.Len()))

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO mappings (name, updated_at)
			VALUES ($1, NOW())
			ON CONFLICT (name) DO UPDATE SET updated_at = NOW();`, name)

		if err != nil {
			return err
		}

		if _, err = tx.Exec(ctx, `DELETE FROM mapping_entries WHERE mapping = $1;`, name); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		position := 0

		for key, value := range m.All() {
			data, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("failed to encode value of %s: %w", key, err)
			}

			batch.Queue(`
				INSERT INTO mapping_entries (mapping, position, key, value)
				VALUES ($1, $2, $3, $4);`, name, position, key, data)
			position++
		}

		if batch.Len() == 0 {
			return nil
		}

		return tx.SendBatch(ctx, batch).Close()
	})
}

func (r *MappingRepository) Load(ctx context.Context, name string) (*orderedmap.OrderedMap[string, any], error) {
	conn, err := r.pool.Acquire(ctx)

	if err != nil {
		return nil, err
	}

	defer conn.Release()

	var exists int
	err = conn.QueryRow(ctx, `SELECT 1 FROM mappings WHERE name = $1;`, name).Scan(&exists)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrMappingNotFound, name)
	} else if err != nil {
		return nil, err
	}

	rows, err := conn.Query(ctx, `
		SELECT key, value
		FROM mapping_entries
		WHERE mapping = $1
		ORDER BY position;`, name)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	m := orderedmap.New[string, any]()

	for rows.Next() {
		var key string
		var data []byte

		if err = rows.Scan(&key, &data); err != nil {
			return nil, err
		}

		var value any
		if data != nil {
			decoder := json.NewDecoder(bytes.NewReader(data))
			decoder.UseNumber()

			if err = decoder.Decode(&value); err != nil {
				return nil, fmt.Errorf("failed to decode value of %s: %w", key, err)
			}
		}

		m.Set(key, value)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	slog.Debug("loaded mapping", slog.String("name", name), slog.Int("len", m.Len()))

	return m, nil
}

func (r *MappingRepository) List(ctx context.Context) (names []string, err error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM mappings ORDER BY name;`)

	if err != nil {
		return
	}

	defer rows.Close()

	for rows.Next() {
		var name string

		if err = rows.Scan(&name); err != nil {
			return
		}

		names = append(names, name)
	}

	err = rows.Err()
	return
}

func (r *MappingRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM mappings WHERE name = $1;`, name)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrMappingNotFound, name)
	}

	return nil
}
