package services

import (
	"context"
	"time"

	"github.com/localnerve/landtoken/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier writes in-app notifications and sends transactional email.
// Every method is best-effort: failures are logged and never returned.
type Notifier struct {
	DB     *gorm.DB
	Mailer Mailer
	Logger *zap.Logger
	Now    func() time.Time
}

// NewNotifier returns a notifier; mailer may be nil to disable email
func NewNotifier(db *gorm.DB, mailer Mailer, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{
		DB:     db,
		Mailer: mailer,
		Logger: log.With(zap.String("service", "notifier")),
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// Notify appends a notification for userID
func (n *Notifier) Notify(ctx context.Context, userID, message, link string) {
	if userID == "" {
		return
	}
	notification := models.Notification{
		UserID:    userID,
		Message:   message,
		Read:      false,
		Link:      link,
		CreatedAt: n.Now(),
	}
	if err := n.DB.WithContext(ctx).Create(&notification).Error; err != nil {
		sideEffectFailuresTotal.WithLabelValues("notification").Inc()
		n.Logger.Warn("Failed to create notification", zap.String("user", userID), zap.Error(err))
		return
	}
	n.Logger.Debug("Notification created", zap.String("user", userID))
}

// SendEmail reports whether the provider accepted the message.
// It is false without a configured provider or on provider error.
func (n *Notifier) SendEmail(ctx context.Context, toAddress, toName, subject, htmlBody string) bool {
	if n.Mailer == nil {
		n.Logger.Debug("Email provider not configured, skipping email", zap.String("subject", subject))
		return false
	}
	if toAddress == "" {
		return false
	}

	id, err := n.Mailer.Send(ctx, Email{ToAddress: toAddress, ToName: toName, Subject: subject, HTML: htmlBody})
	if err != nil {
		sideEffectFailuresTotal.WithLabelValues("email").Inc()
		n.Logger.Warn("Failed to send email", zap.String("to", toAddress), zap.String("subject", subject), zap.Error(err))
		return false
	}

	n.Logger.Info("Email sent", zap.String("to", toAddress), zap.String("message_id", id))
	return true
}

// Message is a notification with an optional email rendering
type Message struct {
	Plain   string
	Link    string
	Subject string
	// HTML renders the email body for the recipient's display name
	HTML func(name string) string
}

// NotifyUser notifies userID and emails them when the profile has an address.
// fallbackName personalizes the email when the profile has no first name.
func (n *Notifier) NotifyUser(ctx context.Context, userID, fallbackName string, msg Message) {
	n.Notify(ctx, userID, msg.Plain, msg.Link)
	if msg.HTML == nil {
		return
	}

	user, err := loadUser(ctx, n.DB, userID)
	if err != nil {
		n.Logger.Warn("Failed to load user for email", zap.String("user", userID), zap.Error(err))
		return
	}
	if user == nil || user.Email == "" {
		return
	}

	name := user.DisplayName(fallbackName)
	n.SendEmail(ctx, user.Email, name, msg.Subject, msg.HTML(name))
}

// NotifyAdmins notifies every admin user
func (n *Notifier) NotifyAdmins(ctx context.Context, message, link string) {
	ids, err := AdminUIDs(ctx, n.DB)
	if err != nil {
		sideEffectFailuresTotal.WithLabelValues("admin_fanout").Inc()
		n.Logger.Warn("Failed to create admin notifications", zap.Error(err))
		return
	}
	if len(ids) == 0 {
		n.Logger.Warn("No admins found to notify")
	}
	for _, id := range ids {
		n.Notify(ctx, id, message, link)
	}
}

// List returns the user's notifications, newest first
func (n *Notifier) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []models.Notification
	err := n.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
