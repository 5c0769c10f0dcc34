package persistent

import (
	"context"
	"fmt"

	"github.com/thealper2/llava-image-archiver/pkg/postgres"
)

const ddl = `
CREATE TABLE IF NOT EXISTS images (
    id           BIGSERIAL PRIMARY KEY,
    filepath     TEXT NOT NULL,
    filename     TEXT NOT NULL,
    file_hash    TEXT NOT NULL UNIQUE,
    file_size    BIGINT NOT NULL,
    width        INTEGER,
    height       INTEGER,
    created_at   TIMESTAMPTZ NOT NULL,
    processed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS descriptions (
    id          BIGSERIAL PRIMARY KEY,
    image_hash  TEXT NOT NULL UNIQUE REFERENCES images(file_hash) ON DELETE CASCADE,
    description TEXT NOT NULL,
    embedding   BYTEA,
    thumbnail   BYTEA
);

CREATE TABLE IF NOT EXISTS scan_runs (
    id          UUID PRIMARY KEY,
    directory   TEXT NOT NULL,
    status      TEXT NOT NULL,
    processed   INTEGER NOT NULL DEFAULT 0,
    skipped     INTEGER NOT NULL DEFAULT 0,
    failed      INTEGER NOT NULL DEFAULT 0,
    started_at  TIMESTAMPTZ NOT NULL,
    finished_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_images_filename ON images (filename);
CREATE INDEX IF NOT EXISTS idx_scan_runs_started_at ON scan_runs (started_at DESC);
`

// InitSchema creates the tables if they don't exist.
func InitSchema(ctx context.Context, pg *postgres.Postgres) error {
	if _, err := pg.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("persistent - InitSchema - pg.Pool.Exec: %w", err)
	}

	return nil
}
