package amqp

import (
	"encoding/json"
	"time"
)

// ReportRequest asks the worker to build and email one dashboard report.
// It carries the raw window parameters rather than resolved bounds so the
// worker resolves presets like "today" at processing time.
type ReportRequest struct {
	OwnerID   string    `json:"owner_id"`
	Email     string    `json:"email"`
	Filter    string    `json:"filter,omitempty"`
	Date      string    `json:"date,omitempty"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	WeekStart string    `json:"week_start,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReportRequest(ownerID, email string) *ReportRequest {
	return &ReportRequest{
		OwnerID:   ownerID,
		Email:     email,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRequestFromJSON creates a message from JSON bytes
func ReportRequestFromJSON(data []byte) (*ReportRequest, error) {
	var msg ReportRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
