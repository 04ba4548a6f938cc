package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"train-fare-sim/models"
)

// SavePurchase appends a purchase record and returns its reference.
func (s *Store) SavePurchase(ctx context.Context, req models.PurchaseRequest) (*models.Purchase, error) {
	p := &models.Purchase{
		Ref:           uuid.NewString(),
		ParticipantID: req.ParticipantID,
		TrainNumber:   req.TrainNumber,
		FromStation:   req.FromStation,
		ToStation:     req.ToStation,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		OriginalPrice: req.OriginalPrice,
		FinalPrice:    req.FinalPrice,
		DiscountRate:  req.DiscountRate,
		DiscountInfo:  req.DiscountInfo,
		KValue:        req.KValue,
		DateType:      req.DateType,
		TimePeriod:    req.TimePeriod,
		AdvanceDays:   req.AdvanceDays,
		SeatType:      req.SeatType,
		PurchaseTime:  time.Now().UTC(),
	}
	if p.DiscountRate == 0 {
		p.DiscountRate = 1
	}
	if p.DiscountInfo == "" {
		p.DiscountInfo = "no discount"
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO purchases (ref, participant_id, train_number, from_station, to_station,
			departure_time, arrival_time, original_price, final_price, discount_rate,
			discount_info, k_value, date_type, time_period, advance_days, seat_type, purchase_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Ref, p.ParticipantID, p.TrainNumber, p.FromStation, p.ToStation,
		p.DepartureTime, p.ArrivalTime, p.OriginalPrice, p.FinalPrice, p.DiscountRate,
		p.DiscountInfo, p.KValue, p.DateType, p.TimePeriod, p.AdvanceDays, p.SeatType,
		p.PurchaseTime.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("error saving purchase: %w", err)
	}

	p.ID, _ = res.LastInsertId()
	return p, nil
}

// ListPurchases returns all purchase records, most recent first.
func (s *Store) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	return s.queryPurchases(ctx,
		`SELECT id, ref, participant_id, train_number, from_station, to_station,
			departure_time, arrival_time, original_price, final_price, discount_rate,
			discount_info, k_value, date_type, time_period, advance_days, seat_type, purchase_time
		 FROM purchases ORDER BY purchase_time DESC`)
}

// PurchasesByParticipant returns the purchase records of one participant.
func (s *Store) PurchasesByParticipant(ctx context.Context, participantID string) ([]models.Purchase, error) {
	return s.queryPurchases(ctx,
		`SELECT id, ref, participant_id, train_number, from_station, to_station,
			departure_time, arrival_time, original_price, final_price, discount_rate,
			discount_info, k_value, date_type, time_period, advance_days, seat_type, purchase_time
		 FROM purchases WHERE participant_id = ? ORDER BY purchase_time DESC`,
		participantID)
}

func (s *Store) queryPurchases(ctx context.Context, query string, args ...interface{}) ([]models.Purchase, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		var ts string
		if err := rows.Scan(&p.ID, &p.Ref, &p.ParticipantID, &p.TrainNumber,
			&p.FromStation, &p.ToStation, &p.DepartureTime, &p.ArrivalTime,
			&p.OriginalPrice, &p.FinalPrice, &p.DiscountRate, &p.DiscountInfo,
			&p.KValue, &p.DateType, &p.TimePeriod, &p.AdvanceDays, &p.SeatType, &ts); err != nil {
			return nil, fmt.Errorf("error scanning purchase: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			p.PurchaseTime = parsed
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// DeletePurchase removes one purchase record by reference.
func (s *Store) DeletePurchase(ctx context.Context, ref string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM purchases WHERE ref = ?`, ref)
	if err != nil {
		return fmt.Errorf("error deleting purchase: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ClearPurchases removes all purchase records.
func (s *Store) ClearPurchases(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM purchases`)
	if err != nil {
		return fmt.Errorf("error clearing purchases: %w", err)
	}
	return nil
}

// CountPurchases returns the total number of purchase records.
func (s *Store) CountPurchases(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM purchases`).Scan(&n)
	return n, err
}

// SaveSurvey appends a survey record.
func (s *Store) SaveSurvey(ctx context.Context, survey models.Survey) (int64, error) {
	answers, err := json.Marshal(survey.Answers)
	if err != nil {
		return 0, fmt.Errorf("error encoding survey answers: %w", err)
	}
	if survey.SubmittedAt.IsZero() {
		survey.SubmittedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO surveys (participant_id, answers, submitted_at) VALUES (?, ?, ?)`,
		survey.ParticipantID, string(answers), survey.SubmittedAt.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("error saving survey: %w", err)
	}
	return res.LastInsertId()
}

// ListSurveys returns all survey records, most recent first.
func (s *Store) ListSurveys(ctx context.Context) ([]models.Survey, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, participant_id, answers, submitted_at FROM surveys ORDER BY submitted_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error querying surveys: %w", err)
	}
	defer rows.Close()

	var surveys []models.Survey
	for rows.Next() {
		var sv models.Survey
		var answers, ts string
		if err := rows.Scan(&sv.ID, &sv.ParticipantID, &answers, &ts); err != nil {
			return nil, fmt.Errorf("error scanning survey: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &sv.Answers); err != nil {
			sv.Answers = map[string]interface{}{"raw": answers}
		}
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			sv.SubmittedAt = parsed
		}
		surveys = append(surveys, sv)
	}
	return surveys, rows.Err()
}
