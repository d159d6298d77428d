package types

import (
	"time"

	"github.com/google/uuid"
)

// InputSetSummary describes a saved snapshot without its payload.
type InputSetSummary struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	CreatedAt          time.Time `json:"createdAt"`
	AllianceAssetNames []string  `json:"allianceAssetNames"`
}

// InputSet is a named snapshot saved for later.
type InputSet struct {
	InputSetSummary
	Snapshot Snapshot `json:"snapshot"`
}
