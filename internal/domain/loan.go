package domain

import "time"

type LoanStatus string

const (
	LoanStatusWaiting   LoanStatus = "WAITING"
	LoanStatusApproved  LoanStatus = "APPROVED"
	LoanStatusBorrowed  LoanStatus = "BORROWED"
	LoanStatusReturned  LoanStatus = "RETURNED"
	LoanStatusRejected  LoanStatus = "REJECTED"
	LoanStatusCancelled LoanStatus = "CANCELLED"
)

// Terminal reports whether no further transition is allowed from s.
func (s LoanStatus) Terminal() bool {
	switch s {
	case LoanStatusReturned, LoanStatusRejected, LoanStatusCancelled:
		return true
	}
	return false
}

// Outstanding reports whether the loan currently holds stock, i.e. the
// asset's available units were decremented at approval and not yet given
// back. BORROWED is equivalent to APPROVED for stock purposes.
func (s LoanStatus) Outstanding() bool {
	return s == LoanStatusApproved || s == LoanStatusBorrowed
}

type Loan struct {
	ID                  string     `json:"id"`
	Code                string     `json:"code"`
	RequesterID         string     `json:"requester_id"`
	ApproverID          *string    `json:"approver_id,omitempty"`
	LoanDate            time.Time  `json:"loan_date"`
	EstimatedReturnDate time.Time  `json:"estimated_return_date"`
	ActualReturnDate    *time.Time `json:"actual_return_date,omitempty"`
	ApprovalDate        *time.Time `json:"approval_date,omitempty"`
	Purpose             string     `json:"purpose,omitempty"`
	Status              LoanStatus `json:"status"`
	RejectionReason     string     `json:"rejection_reason,omitempty"`
	CreatedOn           time.Time  `json:"created_on"`
	UpdatedOn           time.Time  `json:"updated_on"`

	Items []LoanItem `json:"items,omitempty"`
}

// LoanItem ties a loan to one asset lot. LoanCondition snapshots the lot's
// condition at submission time so return grading has a baseline even after
// the lot itself was reclassified.
type LoanItem struct {
	ID            string         `json:"id"`
	LoanID        string         `json:"loan_id"`
	AssetID       string         `json:"asset_id"`
	Quantity      int32          `json:"quantity"`
	LoanCondition AssetCondition `json:"loan_condition"`
}
