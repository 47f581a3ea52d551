package database

// Schema holds every DDL statement needed to initialise a fresh Traits
// database: the nine relational tables of spec.md §3, the Purchase view,
// the price-calculation trigger, and the three session roles of spec.md
// §5/§9. It is translated from original_source's
// generate_sql_initialization_code (MariaDB dialect) into Postgres:
// AUTO_INCREMENT becomes a SERIAL/IDENTITY column, the MariaDB-only
// REGEXP email check becomes a Postgres-native regex CHECK, and the
// trigger body is rewritten in plpgsql since Postgres has no inline
// BEFORE INSERT ... SET NEW.col syntax.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id    SERIAL PRIMARY KEY,
		details    VARCHAR(255),
		email      VARCHAR(255) NOT NULL UNIQUE
		           CHECK (email ~ '^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$')
	);`,

	`CREATE TABLE IF NOT EXISTS trains (
		train_id   SERIAL PRIMARY KEY,
		train_name VARCHAR(255) NOT NULL UNIQUE,
		capacity   INT NOT NULL,
		status     INT NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS stations (
		station_id SERIAL PRIMARY KEY,
		name       TEXT UNIQUE NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS connections (
		connection_id    SERIAL PRIMARY KEY,
		starting_station VARCHAR(255) NOT NULL,
		ending_station   VARCHAR(255) NOT NULL,
		travel_time      INT NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS schedules (
		schedule_id         SERIAL PRIMARY KEY,
		train_id            INT NOT NULL REFERENCES trains(train_id) ON DELETE CASCADE,
		starting_station_id INT NOT NULL REFERENCES stations(station_id) ON DELETE CASCADE,
		ending_station_id   INT NOT NULL REFERENCES stations(station_id) ON DELETE CASCADE,
		start_time          TIME NOT NULL,
		end_time            TIME NOT NULL,
		valid_from          DATE NOT NULL,
		valid_until         DATE NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS trips (
		trip_id             SERIAL PRIMARY KEY,
		train_id            INT NOT NULL REFERENCES trains(train_id) ON DELETE CASCADE,
		starting_station_id INT NOT NULL REFERENCES stations(station_id),
		ending_station_id   INT NOT NULL REFERENCES stations(station_id),
		date                DATE NOT NULL,
		start_time          TIME NOT NULL,
		end_time            TIME NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS tickets (
		ticket_id     SERIAL PRIMARY KEY,
		user_id       INT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		trip_id       INT NOT NULL REFERENCES trips(trip_id) ON DELETE CASCADE,
		booking_time  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		reserved_seat BOOLEAN NOT NULL DEFAULT FALSE,
		price         INT NOT NULL DEFAULT 0
	);`,

	`CREATE TABLE IF NOT EXISTS reservations (
		reservation_id SERIAL PRIMARY KEY,
		ticket_id      INT NOT NULL REFERENCES tickets(ticket_id) ON DELETE CASCADE
	);`,

	// Supplements the distillation: request provenance for a purchase,
	// never required for the correctness of any core invariant. See
	// SPEC_FULL.md's Relational Schema section and DESIGN.md.
	`CREATE TABLE IF NOT EXISTS purchase_audit (
		ticket_id   INT PRIMARY KEY REFERENCES tickets(ticket_id) ON DELETE CASCADE,
		client_ip   VARCHAR(64),
		device      VARCHAR(255),
		trace_id    VARCHAR(64),
		recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,

	`CREATE OR REPLACE VIEW purchases AS
		SELECT
			tk.booking_time AS purchase_time,
			tk.ticket_id,
			u.email AS user_email,
			s1.name AS starting_station_name,
			s2.name AS ending_station_name,
			tr.start_time, tr.end_time,
			tk.price AS connection_price,
			tk.reserved_seat
		FROM tickets tk
		JOIN trips tr ON tk.trip_id = tr.trip_id
		JOIN stations s1 ON tr.starting_station_id = s1.station_id
		JOIN stations s2 ON tr.ending_station_id = s2.station_id
		JOIN users u ON tk.user_id = u.user_id;`,

	`CREATE OR REPLACE FUNCTION calculate_ticket_price() RETURNS trigger AS $$
	DECLARE
		trip_start TIME;
		trip_end   TIME;
		minutes_diff INT;
	BEGIN
		SELECT t.start_time, t.end_time INTO trip_start, trip_end
		FROM trips t WHERE t.trip_id = NEW.trip_id;

		minutes_diff := (EXTRACT(EPOCH FROM (trip_end - trip_start)) / 60)::INT;
		IF minutes_diff < 0 THEN
			minutes_diff := minutes_diff + 24 * 60;
		END IF;

		NEW.price := (minutes_diff / 2) + 2;
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,

	`DROP TRIGGER IF EXISTS calculate_total_price_before_insert ON tickets;`,

	`CREATE TRIGGER calculate_total_price_before_insert
		BEFORE INSERT ON tickets
		FOR EACH ROW
		EXECUTE FUNCTION calculate_ticket_price();`,
}

// Roles recreates the three session roles spec.md §5/§9 describes: an
// anonymous/read-only role, a base role for ordinary passengers, and an
// admin role with full access. The anonymous role exists for parity with
// original_source but Traits' app layer never opens a connection under it
// — every request is served from either the base or the admin handle.
var Roles = []string{
	`DO $$ BEGIN
		CREATE ROLE traits_anonymous NOLOGIN;
	EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
	`GRANT SELECT ON trains, stations, trips TO traits_anonymous;`,

	`DO $$ BEGIN
		CREATE ROLE traits_base LOGIN PASSWORD 'traits_base';
	EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
	`GRANT SELECT ON users, schedules, trains, stations, trips TO traits_base;`,
	`GRANT SELECT, INSERT ON tickets, reservations TO traits_base;`,
	`GRANT SELECT ON purchases TO traits_base;`,
	`GRANT SELECT, INSERT ON purchase_audit TO traits_base;`,

	`DO $$ BEGIN
		CREATE ROLE traits_admin LOGIN PASSWORD 'traits_admin' SUPERUSER;
	EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
}

// Migrate applies Schema and Roles against an admin-privileged connection.
// It is idempotent: every statement uses IF NOT EXISTS/OR REPLACE/
// exception-swallowed role creation so it can run against an
// already-initialised database.
func Migrate(db DB) error {
	for _, stmt := range Schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	for _, stmt := range Roles {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
