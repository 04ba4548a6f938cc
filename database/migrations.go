package database

// migrate ensures all required tables and indexes exist. Every statement is
// idempotent, so reopening an existing store preserves its data and picks up
// any collections or indexes added since it was created.
func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tickets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			train_number TEXT NOT NULL,
			from_station TEXT NOT NULL,
			to_station TEXT NOT NULL,
			departure_time TEXT NOT NULL,
			arrival_time TEXT NOT NULL,
			price REAL NOT NULL,
			seat_type TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_from_station ON tickets(from_station);`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_to_station ON tickets(to_station);`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_train_number ON tickets(train_number);`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_departure_time ON tickets(departure_time);`,
		`CREATE TABLE IF NOT EXISTS stations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			code TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS purchases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ref TEXT NOT NULL UNIQUE,
			participant_id TEXT NOT NULL,
			train_number TEXT NOT NULL,
			from_station TEXT NOT NULL,
			to_station TEXT NOT NULL,
			departure_time TEXT NOT NULL,
			arrival_time TEXT NOT NULL,
			original_price REAL NOT NULL,
			final_price REAL NOT NULL,
			discount_rate REAL NOT NULL,
			discount_info TEXT NOT NULL,
			k_value INTEGER NOT NULL,
			date_type TEXT NOT NULL,
			time_period TEXT NOT NULL,
			advance_days TEXT NOT NULL,
			seat_type TEXT NOT NULL,
			purchase_time TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_participant ON purchases(participant_id);`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_train_number ON purchases(train_number);`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_time ON purchases(purchase_time);`,
		`CREATE TABLE IF NOT EXISTS surveys (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			participant_id TEXT NOT NULL,
			answers TEXT NOT NULL,
			submitted_at TEXT NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
