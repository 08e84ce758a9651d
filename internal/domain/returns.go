package domain

import "time"

// Return is the immutable header written once per loan when the borrowed
// units come back.
type Return struct {
	ID         string    `json:"id"`
	LoanID     string    `json:"loan_id"`
	HandlerID  string    `json:"handler_id"`
	ReturnedOn time.Time `json:"returned_on"`
	Notes      string    `json:"notes,omitempty"`
	CreatedOn  time.Time `json:"created_on"`

	Items []ReturnItem `json:"items,omitempty"`
}

// ReturnItem is one slice of the condition breakdown of a return. The
// quantities of all items of a return sum to the quantity originally
// loaned.
type ReturnItem struct {
	ID             string         `json:"id"`
	ReturnID       string         `json:"return_id"`
	AssetID        string         `json:"asset_id"`
	Quantity       int32          `json:"quantity"`
	Condition      AssetCondition `json:"condition"`
	Notes          string         `json:"notes,omitempty"`
	PhotoURL       string         `json:"photo_url,omitempty"`
	DamageDetected bool           `json:"damage_detected"`
}
