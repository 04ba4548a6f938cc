package models

// Seat classes found in the fare table. A physical departure usually appears
// as several rows, one per class.
const (
	SeatBusiness    = "business"
	SeatFirst       = "first"
	SeatSecond      = "second"
	SeatSoftSleeper = "soft_sleeper"
	SeatHardSleeper = "hard_sleeper"
	SeatHardSeat    = "hard_seat"
)

// SeatClasses lists all known seat classes in display order.
var SeatClasses = []string{
	SeatBusiness,
	SeatFirst,
	SeatSecond,
	SeatSoftSleeper,
	SeatHardSleeper,
	SeatHardSeat,
}

// Ticket represents one fare-table row: a train, a route, times and a price
// for a single seat class. Rows are append-only; duplicates may coexist.
type Ticket struct {
	ID            int64   `json:"id,omitempty"`
	TrainNumber   string  `json:"trainNumber"`
	FromStation   string  `json:"fromStation"`
	ToStation     string  `json:"toStation"`
	DepartureTime string  `json:"departureTime"` // HH:MM
	ArrivalTime   string  `json:"arrivalTime"`   // HH:MM
	Price         float64 `json:"price"`
	SeatType      string  `json:"seatType"`
}

// PricedTicket is a ticket with the discount model applied.
type PricedTicket struct {
	Ticket
	OriginalPrice float64 `json:"originalPrice"`
	FinalPrice    float64 `json:"finalPrice"`
	DiscountRate  float64 `json:"discountRate"`
	DiscountInfo  string  `json:"discountInfo"`
	KValue        int     `json:"kValue"`
	DateType      string  `json:"dateType"`
	TimePeriod    string  `json:"timePeriod"`
}

// MergedItinerary is one physical departure with prices for all seat
// classes collapsed into a single record.
type MergedItinerary struct {
	TrainNumber   string             `json:"trainNumber"`
	FromStation   string             `json:"fromStation"`
	ToStation     string             `json:"toStation"`
	DepartureTime string             `json:"departureTime"`
	ArrivalTime   string             `json:"arrivalTime"`
	Prices        map[string]float64 `json:"prices"` // seat class -> base price
}

// PricedItinerary is a merged itinerary with the discount model applied to
// every seat class.
type PricedItinerary struct {
	MergedItinerary
	FinalPrices  map[string]float64 `json:"finalPrices"` // seat class -> adjusted price
	DiscountRate float64            `json:"discountRate"`
	DiscountInfo string             `json:"discountInfo"`
	KValue       int                `json:"kValue"`
	DateType     string             `json:"dateType"`
	TimePeriod   string             `json:"timePeriod"`
}

// TransferOption is a two-leg itinerary connecting at ViaStation. Computed on
// demand, never persisted. Both legs run on the same calendar day.
type TransferOption struct {
	ViaStation   string `json:"viaStation"`
	FirstLeg     Ticket `json:"firstLeg"`
	SecondLeg    Ticket `json:"secondLeg"`
	WaitMinutes  int    `json:"waitMinutes"`
	TotalMinutes int    `json:"totalMinutes"`
}

// SearchRequest represents a fare search query. DepartureDate, when present,
// is classified against the holiday calendar and overrides DateType.
type SearchRequest struct {
	FromStation   string `json:"fromStation" binding:"required"`
	ToStation     string `json:"toStation" binding:"required"`
	DepartureDate string `json:"departureDate"` // YYYY-MM-DD, optional
	DateType      string `json:"dateType"`      // workday, weekend, holiday
	AdvanceDays   int    `json:"advanceDays"`   // booking lead time in days
}

// SearchResponse represents a fare search result. Type is "direct" when the
// store held direct tickets and "transfer" when only two-leg options exist.
type SearchResponse struct {
	Type        string            `json:"type"`
	Tickets     []PricedTicket    `json:"tickets"`
	Itineraries []PricedItinerary `json:"itineraries"`
	Transfers   []TransferOption  `json:"transfers"`
}
