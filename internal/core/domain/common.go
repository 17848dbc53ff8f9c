package domain

import "time"

// AuditFields records who created a row and who changed it last.
// CreatedBy and LastUpdatedBy hold user IDs.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields stamps a row created and last updated by the same user.
func NewAuditFields(by string, at time.Time) AuditFields {
	return AuditFields{CreatedAt: at, CreatedBy: by, LastUpdatedAt: at, LastUpdatedBy: by}
}

func (a *AuditFields) Touch(by string, at time.Time) {
	a.LastUpdatedAt, a.LastUpdatedBy = at, by
}

// LastChanged is the last update, or creation for rows never updated.
func (a AuditFields) LastChanged() time.Time {
	if !a.LastUpdatedAt.IsZero() {
		return a.LastUpdatedAt
	}
	return a.CreatedAt
}
