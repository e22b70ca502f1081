package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL owned by one service.
type Schema string

const FlightsSchema Schema = `
CREATE TABLE IF NOT EXISTS flights (
	id              BIGSERIAL PRIMARY KEY,
	flight_number   TEXT NOT NULL UNIQUE,
	airline         TEXT NOT NULL DEFAULT '',
	departure_city  TEXT NOT NULL DEFAULT '',
	arrival_city    TEXT NOT NULL DEFAULT '',
	price_cents     BIGINT NOT NULL DEFAULT 0,
	capacity        INT NOT NULL CHECK (capacity >= 0),
	available_seats INT NOT NULL CHECK (available_seats >= 0 AND available_seats <= capacity),
	version         BIGINT NOT NULL DEFAULT 1,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS schedules (
	id             BIGSERIAL PRIMARY KEY,
	flight_id      BIGINT NOT NULL REFERENCES flights (id) ON DELETE CASCADE,
	departure_time TIMESTAMPTZ NOT NULL,
	arrival_time   TIMESTAMPTZ NOT NULL,
	status         TEXT NOT NULL DEFAULT 'SCHEDULED',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	CHECK (departure_time < arrival_time)
);

CREATE INDEX IF NOT EXISTS schedules_flight_departure_idx ON schedules (flight_id, departure_time);
`

const TicketsSchema Schema = `
CREATE TABLE IF NOT EXISTS tickets (
	id             BIGSERIAL PRIMARY KEY,
	user_id        BIGINT NOT NULL,
	flight_id      BIGINT NOT NULL,
	schedule_id    BIGINT NOT NULL,
	passenger_name TEXT NOT NULL,
	seat_number    TEXT,
	price_cents    BIGINT NOT NULL DEFAULT 0,
	status         TEXT NOT NULL,
	booking_time   TIMESTAMPTZ NOT NULL,
	last_updated   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS tickets_user_idx ON tickets (user_id);
`

const IdentitySchema Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'USER',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func InitializeSchema(ctx context.Context, db *pgxpool.Pool, schema Schema) error {
	if _, err := db.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}
