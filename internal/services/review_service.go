package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/landtoken/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Review actions accepted by the review endpoints
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionAccept  = "accept"
)

// ReviewService runs the property and advocate application review transitions
type ReviewService struct {
	DB       *gorm.DB
	Notifier *Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewReviewService creates the application review service
func NewReviewService(db *gorm.DB, notifier *Notifier, log *zap.Logger) *ReviewService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReviewService{
		DB:       db,
		Notifier: notifier,
		Logger:   log.With(zap.String("service", "review")),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// ReviewInput is an admin decision on a pending record
type ReviewInput struct {
	ID      string
	Action  string
	Comment string
}

func (in ReviewInput) validate(idField string) error {
	if in.ID == "" || in.Action == "" {
		return types.NewValidation(fmt.Sprintf("Missing %s or action", idField))
	}
	if in.Action != ActionApprove && in.Action != ActionReject {
		return types.NewValidation("Invalid action")
	}
	if in.Action == ActionReject && in.Comment == "" {
		return types.NewValidation("Comment is required for rejection")
	}
	return nil
}

// newKey returns a record key usable before the batch commits
func newKey() string {
	return uuid.New().String()
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

type claimState struct {
	AssignedAdmin *string
}

// claim sets assigned_admin on one row of model when it is unassigned.
// It returns NotFound for a missing row and Conflict when another admin holds it.
func claim(ctx context.Context, db *gorm.DB, model interface{}, id, adminUID, what string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current claimState
		res := tx.Model(model).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("assigned_admin").
			Where("id = ?", id).
			Limit(1).
			Find(&current)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.NewNotFound(fmt.Sprintf("%s not found", what))
		}
		if current.AssignedAdmin != nil {
			if *current.AssignedAdmin == adminUID {
				return nil
			}
			return types.NewConflict(types.TypeConflict, fmt.Sprintf("%s is already claimed by another admin", what))
		}

		return tx.Model(model).
			Where("id = ? AND assigned_admin IS NULL", id).
			Update("assigned_admin", adminUID).Error
	})
}

// lockByID loads dest by primary key under a row lock where the dialect supports one
func lockByID(tx *gorm.DB, dest interface{}, id string) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(dest).Error
}
