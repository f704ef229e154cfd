package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/localnerve/landtoken/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Directory lookup outcomes
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrWalletNotFound   = errors.New("user not found or has no wallet")
	ErrPropertyNotFound = errors.New("property not found or not approved")
	ErrNotYetMinted     = errors.New("property approved but not yet minted")
)

// findUserByNationalID returns the first user with the given national id
func findUserByNationalID(ctx context.Context, db *gorm.DB, nationalID string) (*models.User, error) {
	if nationalID == "" {
		return nil, ErrUserNotFound
	}

	var users []models.User
	err := db.WithContext(ctx).
		Clauses(hints.CommentBefore("select", "directory:national-id")).
		Where("id_number = ?", nationalID).
		Limit(1).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("national id lookup failed: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}

	return &users[0], nil
}

// WalletForNationalID returns the wallet address of the user holding nationalID.
// A missing user and a user without a wallet are the same ErrWalletNotFound.
func WalletForNationalID(ctx context.Context, db *gorm.DB, nationalID string) (string, error) {
	user, err := findUserByNationalID(ctx, db, nationalID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrWalletNotFound
		}
		return "", err
	}
	if !user.HasWallet() {
		return "", ErrWalletNotFound
	}
	return *user.WalletAddress, nil
}

// UIDForNationalID returns the identity key of the user holding nationalID
func UIDForNationalID(ctx context.Context, db *gorm.DB, nationalID string) (string, error) {
	user, err := findUserByNationalID(ctx, db, nationalID)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// TokenIDForParcel returns the token id of the approved property with parcelNumber.
// ErrPropertyNotFound means no approved record; ErrNotYetMinted means it is
// approved but its token id is still null.
func TokenIDForParcel(ctx context.Context, db *gorm.DB, parcelNumber string) (string, error) {
	if parcelNumber == "" {
		return "", ErrPropertyNotFound
	}

	var props []models.ApprovedProperty
	err := db.WithContext(ctx).
		Clauses(hints.CommentBefore("select", "directory:parcel")).
		Where("parcel_number = ?", parcelNumber).
		Limit(1).
		Find(&props).Error
	if err != nil {
		return "", fmt.Errorf("parcel lookup failed: %w", err)
	}
	if len(props) == 0 {
		return "", ErrPropertyNotFound
	}
	if props[0].TokenID == nil || *props[0].TokenID == "" {
		return "", ErrNotYetMinted
	}

	return *props[0].TokenID, nil
}

// AdminUIDs returns the identity keys of every admin user
func AdminUIDs(ctx context.Context, db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_admin = ?", true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("admin lookup failed: %w", err)
	}
	return ids, nil
}

// loadUser returns the user record or nil when missing
func loadUser(ctx context.Context, db *gorm.DB, uid string) (*models.User, error) {
	if uid == "" {
		return nil, nil
	}
	var user models.User
	err := db.WithContext(ctx).Where("id = ?", uid).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
