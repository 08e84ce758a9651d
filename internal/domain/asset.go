package domain

import "time"

type AssetCondition string

const (
	ConditionGood        AssetCondition = "GOOD"
	ConditionMinorDamage AssetCondition = "MINOR_DAMAGE"
	ConditionMajorDamage AssetCondition = "MAJOR_DAMAGE"
	ConditionLost        AssetCondition = "LOST"
)

// ValidCondition reports whether c is a known condition value.
func ValidCondition(c AssetCondition) bool {
	switch c {
	case ConditionGood, ConditionMinorDamage, ConditionMajorDamage, ConditionLost:
		return true
	}
	return false
}

// Asset is an inventory lot: a group of identical physical items sharing
// name, category, location and condition. AvailableUnits excludes units
// outstanding on approved loans and never exceeds TotalUnits.
type Asset struct {
	ID              string         `json:"id"`
	Code            string         `json:"code"`
	Name            string         `json:"name"`
	CategoryID      string         `json:"category_id"`
	LocationID      string         `json:"location_id"`
	TotalUnits      int32          `json:"total_units"`
	AvailableUnits  int32          `json:"available_units"`
	Condition       AssetCondition `json:"condition"`
	AcquisitionDate *time.Time     `json:"acquisition_date,omitempty"`
	PhotoURL        string         `json:"photo_url,omitempty"`
	IsActive        bool           `json:"is_active"`
	CreatedOn       time.Time      `json:"created_on"`
	UpdatedOn       time.Time      `json:"updated_on"`
}

// EffectiveStock is the answer to "how many units can still be promised".
// Pending counts units requested by loans that are still waiting for
// approval; Effective may be negative transiently when waiting requests
// race, so approval re-validates against AvailableUnits.
type EffectiveStock struct {
	AssetID   string `json:"asset_id"`
	Available int32  `json:"available"`
	Pending   int32  `json:"pending"`
	Effective int32  `json:"effective"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
}

type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Floor     string    `json:"floor,omitempty"`
	Remarks   string    `json:"remarks,omitempty"`
	CreatedOn time.Time `json:"created_on"`
}

// ConditionLogEntry is one observation in the append-only condition history
// of an asset. Entries written by return processing always target the
// originating lot, even when units moved to a split-off lot.
type ConditionLogEntry struct {
	ID          string         `json:"id"`
	AssetID     string         `json:"asset_id"`
	Condition   AssetCondition `json:"condition"`
	Description string         `json:"description,omitempty"`
	Source      string         `json:"source"`
	PhotoURL    string         `json:"photo_url,omitempty"`
	RecordedBy  string         `json:"recorded_by"`
	CreatedOn   time.Time      `json:"created_on"`
}
