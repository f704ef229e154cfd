package models

import (
	"time"
)

// User is a profile keyed by the identity provider's subject
type User struct {
	ID            string    `gorm:"primaryKey;size:128" json:"id"`
	FirstName     string    `gorm:"size:255" json:"firstName"`
	LastName      string    `gorm:"size:255" json:"lastName"`
	Email         string    `gorm:"size:255" json:"email"`
	IDNumber      string    `gorm:"size:64;index" json:"idNumber"`
	WalletAddress *string   `gorm:"size:64" json:"walletAddress"`
	IsAdmin       bool      `gorm:"not null;default:false;index" json:"isAdmin"`
	IsAdvocate    bool      `gorm:"not null;default:false" json:"isAdvocate"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DisplayName returns the first name, falling back to the given default
func (u *User) DisplayName(fallback string) string {
	if u == nil || u.FirstName == "" {
		return fallback
	}
	return u.FirstName
}

// HasWallet reports whether a wallet address is linked
func (u *User) HasWallet() bool {
	return u != nil && u.WalletAddress != nil && *u.WalletAddress != ""
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
