package models

import (
	"time"
)

// Property application states
const (
	PropertyStatusPending  = "pending"
	PropertyStatusApproved = "approved"
	PropertyStatusRejected = "rejected"
)

// PropertyRecord is the shape shared by the pending, approved and rejected
// collections. The key is preserved when a record moves between them.
type PropertyRecord struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	UID                string    `gorm:"size:128;not null;index" json:"uid"`
	OwnerWalletAddress string    `gorm:"size:64" json:"ownerWalletAddress"`
	ParcelNumber       string    `gorm:"size:128;not null;index" json:"parcelNumber"`
	Location           string    `gorm:"size:512" json:"location"`
	FileURLs           FileURLs  `json:"fileUrls"`
	Status             string    `gorm:"size:32;not null" json:"status"`
	SubmittedAt        time.Time `json:"submittedAt"`
	AssignedAdmin      *string   `gorm:"size:128;index" json:"assignedAdmin"`
	ReviewedBy         *string   `gorm:"size:128" json:"reviewedBy"`
}

// PendingProperty awaits admin review
type PendingProperty struct {
	PropertyRecord
}

// ApprovedProperty is ready to mint; TxHash and TokenID stay null until minted
type ApprovedProperty struct {
	PropertyRecord
	ApprovedAt *time.Time `json:"approvedAt"`
	TxHash     *string    `gorm:"size:80" json:"txHash"`
	TokenID    *string    `gorm:"size:80" json:"tokenId"`
	MintedAt   *time.Time `json:"mintedAt,omitempty"`
}

// RejectedProperty carries the reviewer's comment
type RejectedProperty struct {
	PropertyRecord
	RejectionComment string     `gorm:"type:text" json:"rejectionComment"`
	RejectedAt       *time.Time `json:"rejectedAt"`
}

// TableName overrides the table name for PendingProperty
func (PendingProperty) TableName() string {
	return "pending_properties"
}

// TableName overrides the table name for ApprovedProperty
func (ApprovedProperty) TableName() string {
	return "properties"
}

// TableName overrides the table name for RejectedProperty
func (RejectedProperty) TableName() string {
	return "rejected_properties"
}
