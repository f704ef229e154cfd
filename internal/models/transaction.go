package models

import (
	"encoding/json"
	"time"
)

// Transaction states, in workflow order
const (
	TransactionStatusCreated              = "Created"
	TransactionStatusAwaitingVerification = "Awaiting Verification"
	TransactionStatusUnderReview          = "Under Review"
	TransactionStatusApproved             = "Approved"
	TransactionStatusRejected             = "Rejected"
)

// TransactionStatusTerminal reports whether no further transitions are allowed
func TransactionStatusTerminal(status string) bool {
	return status == TransactionStatusApproved || status == TransactionStatusRejected
}

// AdvocateRef identifies the advocate who created the transaction
type AdvocateRef struct {
	UID           string `gorm:"size:128;index" json:"uid"`
	Name          string `gorm:"size:255" json:"name"`
	WalletAddress string `gorm:"size:64" json:"walletAddress"`
}

// Party is the buyer or seller side of a transaction.
// VerifiedDocs is tri-state: nil (unset), true (accepted), false (rejected).
type Party struct {
	UID              string  `gorm:"size:128;index" json:"uid"`
	Name             string  `gorm:"size:255" json:"name"`
	WalletAddress    string  `gorm:"size:64" json:"walletAddress"`
	Email            string  `gorm:"size:255" json:"email"`
	Phone            string  `gorm:"size:64" json:"phone"`
	VerifiedDocs     *bool   `json:"verifiedDocs"`
	RejectionComment *string `gorm:"type:text" json:"rejectionComment,omitempty"`
}

// Accepted reports whether this party accepted the current document set
func (p Party) Accepted() bool {
	return p.VerifiedDocs != nil && *p.VerifiedDocs
}

// Transaction coordinates buyer, seller, advocate and admin
type Transaction struct {
	ID                    string                `gorm:"primaryKey;size:36" json:"id"`
	ParcelNumber          string                `gorm:"size:128;index" json:"parcelNumber"`
	Location              string                `gorm:"size:512" json:"location"`
	TokenID               *string               `gorm:"size:80" json:"tokenId"`
	TxHash                *string               `gorm:"size:80" json:"txHash"`
	OnChainTxID           *string               `gorm:"size:80" json:"onChainTxId"`
	Advocate              AdvocateRef           `gorm:"embedded;embeddedPrefix:advocate_" json:"advocate"`
	Buyer                 Party                 `gorm:"embedded;embeddedPrefix:buyer_" json:"buyer"`
	Seller                Party                 `gorm:"embedded;embeddedPrefix:seller_" json:"seller"`
	Status                string                `gorm:"size:32;not null;index" json:"status"`
	AssignedAdmin         *string               `gorm:"size:128;index" json:"assignedAdmin"`
	ReviewedBy            *string               `gorm:"size:128" json:"reviewedBy,omitempty"`
	AdminRejectionComment *string               `gorm:"type:text" json:"adminRejectionComment,omitempty"`
	FinalTxHash           *string               `gorm:"size:80" json:"finalTxHash,omitempty"`
	FinalizedAt           *time.Time            `json:"finalizedAt,omitempty"`
	Documents             []TransactionDocument `gorm:"foreignKey:TransactionID" json:"advocateDocuments"`
	CreatedAt             time.Time             `json:"createdAt"`
	UpdatedAt             time.Time             `json:"updatedAt"`
}

// TransactionDocument is one advocate upload. Rows are only ever inserted.
type TransactionDocument struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	TransactionID  string    `gorm:"size:36;not null;index" json:"-"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	URL            string    `gorm:"size:1024;not null" json:"url"`
	UploadedAt     time.Time `json:"uploadedAt"`
	UploadedByUID  string    `gorm:"size:128" json:"-"`
	UploadedByName string    `gorm:"size:255" json:"-"`
}

// DocumentAuthor is the uploadedBy sub-record of a document
type DocumentAuthor struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// MarshalJSON nests the uploader columns under uploadedBy
func (d TransactionDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name       string         `json:"name"`
		URL        string         `json:"url"`
		UploadedAt time.Time      `json:"uploadedAt"`
		UploadedBy DocumentAuthor `json:"uploadedBy"`
	}{
		Name:       d.Name,
		URL:        d.URL,
		UploadedAt: d.UploadedAt,
		UploadedBy: DocumentAuthor{UID: d.UploadedByUID, Name: d.UploadedByName},
	})
}

// TableName overrides the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// TableName overrides the table name for TransactionDocument
func (TransactionDocument) TableName() string {
	return "transaction_documents"
}
