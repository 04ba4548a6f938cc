package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"train-fare-sim/models"
)

// importBatchSize bounds the rows committed per transaction so a
// multi-hundred-thousand-record import never holds one long write lock.
const importBatchSize = 5000

// BulkInsertTickets inserts tickets in bounded batches. Individual row
// failures are counted and skipped; a failed batch commit is logged and the
// import continues with the next batch. Distinct station names seen in the
// records are upserted first. Returns the number of rows inserted.
//
// Cancelling ctx stops the import between batches; batches already committed
// are kept.
func (s *Store) BulkInsertTickets(ctx context.Context, tickets []models.Ticket) (int, error) {
	if len(tickets) == 0 {
		return 0, nil
	}

	if err := s.upsertStationsFromTickets(ctx, tickets); err != nil {
		// Station derivation can recover later from ticket rows.
		log.Printf("Station upsert during import failed: %v", err)
	}

	inserted := 0
	skipped := 0

	for start := 0; start < len(tickets); start += importBatchSize {
		if err := ctx.Err(); err != nil {
			return inserted, fmt.Errorf("import cancelled after %d rows: %w", inserted, err)
		}

		end := start + importBatchSize
		if end > len(tickets) {
			end = len(tickets)
		}

		n, nSkipped, err := s.insertTicketBatch(ctx, tickets[start:end])
		if err != nil {
			log.Printf("Batch %d-%d failed, continuing: %v", start, end, err)
			continue
		}
		inserted += n
		skipped += nSkipped

		log.Printf("Imported %d / %d tickets", inserted, len(tickets))
	}

	if skipped > 0 {
		log.Printf("Import finished: %d inserted, %d rows skipped", inserted, skipped)
	}
	return inserted, nil
}

func (s *Store) insertTicketBatch(ctx context.Context, batch []models.Ticket) (inserted, skipped int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tickets (train_number, from_station, to_station, departure_time, arrival_time, price, seat_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, err
	}
	defer stmt.Close()

	for _, t := range batch {
		if _, execErr := stmt.ExecContext(ctx,
			t.TrainNumber, t.FromStation, t.ToStation,
			t.DepartureTime, t.ArrivalTime, t.Price, t.SeatType,
		); execErr != nil {
			skipped++
			continue
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, err
	}
	return inserted, skipped, nil
}

func (s *Store) upsertStationsFromTickets(ctx context.Context, tickets []models.Ticket) error {
	names := make(map[string]struct{})
	for _, t := range tickets {
		if t.FromStation != "" {
			names[t.FromStation] = struct{}{}
		}
		if t.ToStation != "" {
			names[t.ToStation] = struct{}{}
		}
	}
	return s.upsertStations(ctx, names)
}

// SearchTickets returns tickets matching the route exactly, walking the
// origin index and filtering by destination, with offset/limit applied over
// the matching sequence in insertion (id) order.
func (s *Store) SearchTickets(ctx context.Context, from, to string, limit, offset int) ([]models.Ticket, error) {
	if limit <= 0 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, train_number, from_station, to_station, departure_time, arrival_time, price, seat_type
		 FROM tickets
		 WHERE from_station = ? AND to_station = ?
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying tickets: %w", err)
	}
	defer rows.Close()

	return scanTickets(rows)
}

// SearchTicketsFuzzy returns tickets whose origin and destination each
// contain the given fragments. Used as a superset fallback when the exact
// search under-returns.
func (s *Store) SearchTicketsFuzzy(ctx context.Context, from, to string, limit int) ([]models.Ticket, error) {
	if limit <= 0 {
		limit = 1000
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, train_number, from_station, to_station, departure_time, arrival_time, price, seat_type
		 FROM tickets
		 WHERE from_station LIKE '%' || ? || '%' AND to_station LIKE '%' || ? || '%'
		 LIMIT ?`,
		from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying tickets: %w", err)
	}
	defer rows.Close()

	return scanTickets(rows)
}

// SearchByDeparture returns all tickets departing from the given station.
func (s *Store) SearchByDeparture(ctx context.Context, from string) ([]models.Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, train_number, from_station, to_station, departure_time, arrival_time, price, seat_type
		 FROM tickets
		 WHERE from_station = ?`,
		from)
	if err != nil {
		return nil, fmt.Errorf("error querying tickets: %w", err)
	}
	defer rows.Close()

	return scanTickets(rows)
}

// SearchByTrainNumber returns all tickets for the given train.
func (s *Store) SearchByTrainNumber(ctx context.Context, trainNumber string) ([]models.Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, train_number, from_station, to_station, departure_time, arrival_time, price, seat_type
		 FROM tickets
		 WHERE train_number = ?`,
		trainNumber)
	if err != nil {
		return nil, fmt.Errorf("error querying tickets: %w", err)
	}
	defer rows.Close()

	return scanTickets(rows)
}

// CountTickets returns the total number of ticket rows.
func (s *Store) CountTickets(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&n)
	return n, err
}

// ClearTicketsAndStations empties the ticket and station collections.
// Purchases and surveys are preserved: reloading fare data must not destroy
// participant activity history.
func (s *Store) ClearTicketsAndStations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tickets`); err != nil {
		return fmt.Errorf("error clearing tickets: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM stations`); err != nil {
		return fmt.Errorf("error clearing stations: %w", err)
	}
	return nil
}

func scanTickets(rows *sql.Rows) ([]models.Ticket, error) {
	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.TrainNumber, &t.FromStation, &t.ToStation,
			&t.DepartureTime, &t.ArrivalTime, &t.Price, &t.SeatType); err != nil {
			return nil, fmt.Errorf("error scanning ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}
