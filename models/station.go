package models

// Station represents a train station
type Station struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
	Code string `json:"code"`
}
