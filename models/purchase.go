package models

import "time"

// Purchase represents one simulated purchase made by a study participant.
// Records are append-only; the caller-facing layer may delete them.
type Purchase struct {
	ID            int64     `json:"id,omitempty"`
	Ref           string    `json:"ref"`
	ParticipantID string    `json:"participantId"`
	TrainNumber   string    `json:"trainNumber"`
	FromStation   string    `json:"fromStation"`
	ToStation     string    `json:"toStation"`
	DepartureTime string    `json:"departureTime"`
	ArrivalTime   string    `json:"arrivalTime"`
	OriginalPrice float64   `json:"originalPrice"`
	FinalPrice    float64   `json:"finalPrice"`
	DiscountRate  float64   `json:"discountRate"`
	DiscountInfo  string    `json:"discountInfo"`
	KValue        int       `json:"kValue"`
	DateType      string    `json:"dateType"`
	TimePeriod    string    `json:"timePeriod"`
	AdvanceDays   string    `json:"advanceDays"`
	SeatType      string    `json:"seatType"`
	PurchaseTime  time.Time `json:"purchaseTime"`
}

// PurchaseRequest represents a purchase creation request
type PurchaseRequest struct {
	ParticipantID string  `json:"participantId" binding:"required"`
	TrainNumber   string  `json:"trainNumber" binding:"required"`
	FromStation   string  `json:"fromStation"`
	ToStation     string  `json:"toStation"`
	DepartureTime string  `json:"departureTime"`
	ArrivalTime   string  `json:"arrivalTime"`
	OriginalPrice float64 `json:"originalPrice"`
	FinalPrice    float64 `json:"finalPrice"`
	DiscountRate  float64 `json:"discountRate"`
	DiscountInfo  string  `json:"discountInfo"`
	KValue        int     `json:"kValue"`
	DateType      string  `json:"dateType"`
	TimePeriod    string  `json:"timePeriod"`
	AdvanceDays   string  `json:"advanceDays"`
	SeatType      string  `json:"seatType"`
}

// Survey represents one submitted behavioral survey form. Answers are kept
// as an opaque JSON object; the core never interprets them.
type Survey struct {
	ID            int64                  `json:"id,omitempty"`
	ParticipantID string                 `json:"participantId"`
	Answers       map[string]interface{} `json:"answers"`
	SubmittedAt   time.Time              `json:"submittedAt"`
}
