package database

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"train-fare-sim/models"
)

// minStationCount below which the explicit station collection is considered
// implausible and rebuilt from ticket rows.
const minStationCount = 10

// ListStations returns all stations. When the explicit collection holds
// fewer than minStationCount entries it is rebuilt by scanning the distinct
// origin and destination names of all tickets, and the derived set is
// persisted so every station referenced by a ticket stays resolvable.
func (s *Store) ListStations(ctx context.Context) ([]models.Station, error) {
	stations, err := s.listStations(ctx)
	if err != nil {
		return nil, err
	}

	if len(stations) >= minStationCount {
		return stations, nil
	}

	derived, err := s.deriveStationsFromTickets(ctx)
	if err != nil {
		return nil, err
	}
	if len(derived) <= len(stations) {
		// Nothing new to derive; the small explicit set is all there is.
		return stations, nil
	}

	if err := s.upsertStations(ctx, derived); err != nil {
		return nil, fmt.Errorf("error persisting derived stations: %w", err)
	}

	return s.listStations(ctx)
}

func (s *Store) listStations(ctx context.Context) ([]models.Station, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, code FROM stations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error querying stations: %w", err)
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var st models.Station
		if err := rows.Scan(&st.ID, &st.Name, &st.Code); err != nil {
			return nil, fmt.Errorf("error scanning station: %w", err)
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

func (s *Store) deriveStationsFromTickets(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT from_station FROM tickets
		 UNION
		 SELECT DISTINCT to_station FROM tickets`)
	if err != nil {
		return nil, fmt.Errorf("error deriving stations: %w", err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if name != "" {
			names[name] = struct{}{}
		}
	}
	return names, rows.Err()
}

func (s *Store) upsertStations(ctx context.Context, names map[string]struct{}) error {
	if len(names) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO stations (name, code) VALUES (?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for name := range names {
		if _, err := stmt.ExecContext(ctx, name, StationCode(name)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// StationCode derives a station code from its name by keeping the
// alphanumeric characters of the uppercased name.
func StationCode(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
