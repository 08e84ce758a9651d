package domain

import "time"

type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "LOW"
	PriorityNormal ComplaintPriority = "NORMAL"
	PriorityHigh   ComplaintPriority = "HIGH"
	PriorityUrgent ComplaintPriority = "URGENT"
)

type ComplaintStatus string

const (
	ComplaintStatusWaiting    ComplaintStatus = "WAITING"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
	ComplaintStatusRejected   ComplaintStatus = "REJECTED"
)

type Complaint struct {
	ID          string            `json:"id"`
	ReporterID  string            `json:"reporter_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Location    string            `json:"location,omitempty"`
	AssetID     *string           `json:"asset_id,omitempty"`
	LoanID      *string           `json:"loan_id,omitempty"`
	PhotoURL    string            `json:"photo_url,omitempty"`
	Priority    ComplaintPriority `json:"priority"`
	Status      ComplaintStatus   `json:"status"`
	CreatedOn   time.Time         `json:"created_on"`
	UpdatedOn   time.Time         `json:"updated_on"`
}
