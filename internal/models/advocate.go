package models

import (
	"time"
)

// Advocate application states
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// AdvocateApplication is reviewed in place; it never moves between tables
type AdvocateApplication struct {
	ID                   string     `gorm:"primaryKey;size:36" json:"id"`
	UID                  string     `gorm:"size:128;not null;index" json:"uid"`
	FullName             string     `gorm:"size:255" json:"fullName"`
	Email                string     `gorm:"size:255" json:"email"`
	PracticingCertNumber string     `gorm:"size:128" json:"practicingCertNumber"`
	FirmName             string     `gorm:"size:255" json:"firmName"`
	FirmRegNumber        string     `gorm:"size:128" json:"firmRegNumber"`
	Phone                string     `gorm:"size:64" json:"phone"`
	Address              string     `gorm:"size:512" json:"address"`
	FileURLs             FileURLs   `json:"fileUrls"`
	Status               string     `gorm:"size:32;not null;index" json:"status"`
	RejectionComment     *string    `gorm:"type:text" json:"rejectionComment,omitempty"`
	AssignedAdmin        *string    `gorm:"size:128;index" json:"assignedAdmin"`
	ReviewedBy           *string    `gorm:"size:128" json:"reviewedBy,omitempty"`
	SubmittedAt          time.Time  `json:"submittedAt"`
	ReviewedAt           *time.Time `json:"reviewedAt,omitempty"`
}

// TableName overrides the table name for AdvocateApplication
func (AdvocateApplication) TableName() string {
	return "advocate_applications"
}
