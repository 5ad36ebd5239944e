package domain

import "time"

// AuditFields holds creation and update tracking embedded in every
// persisted entity. The actor fields carry source labels ("upload",
// "system", an import channel), not account references.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
