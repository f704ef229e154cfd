package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/landtoken/internal/database"
	"github.com/localnerve/landtoken/internal/models"
	"github.com/localnerve/landtoken/internal/services"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Wallets and hashes used across the tests
const (
	ownerWallet    = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	buyerWallet    = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	sellerWallet   = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
	advocateWallet = "0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb"
	sampleTxHash   = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
	otherTxHash    = "0x2a3fdd4b4d9b1ac9ad0e7e1a0f3e9a5c4c3b2a1908f7e6d5c4b3a29180706050"
)

var testNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// setupTestDB creates a migrated in-memory SQLite database.
// One connection keeps every query on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// fakeMailer records sent messages
type fakeMailer struct {
	mu   sync.Mutex
	sent []services.Email
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, email services.Email) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, email)
	return fmt.Sprintf("<msg-%d@test>", len(m.sent)), nil
}

func (m *fakeMailer) Sent() []services.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]services.Email(nil), m.sent...)
}

// fakeUploader keeps uploaded objects in memory
type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
	// afterUpload runs once each object is stored
	afterUpload func(key string)
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}}
}

func (u *fakeUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	u.objects[key] = data
	u.mu.Unlock()
	if u.afterUpload != nil {
		u.afterUpload(key)
	}
	return "https://files.test/" + key, nil
}

// fakeVerifier maps tokens to identities
type fakeVerifier map[string]*services.Identity

func (v fakeVerifier) VerifyToken(ctx context.Context, token string) (*services.Identity, error) {
	if token == "broken" {
		return nil, errors.New("provider unavailable")
	}
	if id, ok := v[token]; ok {
		return id, nil
	}
	return nil, services.ErrInvalidToken
}

// env bundles the services under test with their collaborators
type env struct {
	DB           *gorm.DB
	Mailer       *fakeMailer
	Uploader     *fakeUploader
	Logs         *observer.ObservedLogs
	Notifier     *services.Notifier
	Reviews      *services.ReviewService
	Submissions  *services.SubmissionService
	Transactions *services.TransactionService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := setupTestDB(t)
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	e := &env{
		DB:       db,
		Mailer:   &fakeMailer{},
		Uploader: newFakeUploader(),
		Logs:     logs,
	}
	e.Notifier = services.NewNotifier(db, e.Mailer, log)
	e.Reviews = services.NewReviewService(db, e.Notifier, log)
	e.Submissions = services.NewSubmissionService(db, e.Uploader, e.Notifier, log)
	e.Transactions = services.NewTransactionService(db, e.Uploader, e.Notifier, log)

	now := func() time.Time { return testNow }
	e.Notifier.Now = now
	e.Reviews.Now = now
	e.Submissions.Now = now
	e.Transactions.Now = now

	return e
}

func strp(s string) *string { return &s }

// seedUser inserts a user profile
func seedUser(t *testing.T, db *gorm.DB, u models.User) models.User {
	t.Helper()
	require.NoError(t, db.Create(&u).Error)
	return u
}

// seedCast inserts an admin, an advocate, a buyer and a seller
func seedCast(t *testing.T, db *gorm.DB) (admin, advocate, buyer, seller models.User) {
	t.Helper()
	admin = seedUser(t, db, models.User{ID: "admin-1", FirstName: "Ada", Email: "ada@example.com", IsAdmin: true})
	advocate = seedUser(t, db, models.User{ID: "adv-1", FirstName: "Wanjiru", Email: "wanjiru@example.com", IsAdvocate: true, WalletAddress: strp(advocateWallet)})
	buyer = seedUser(t, db, models.User{ID: "buyer-1", FirstName: "Baraka", Email: "baraka@example.com", IDNumber: "11111111", WalletAddress: strp(buyerWallet)})
	seller = seedUser(t, db, models.User{ID: "seller-1", FirstName: "Saida", Email: "saida@example.com", IDNumber: "22222222", WalletAddress: strp(sellerWallet)})
	return
}

// seedPending inserts a pending property owned by uid
func seedPending(t *testing.T, db *gorm.DB, id, uid, parcel string) models.PendingProperty {
	t.Helper()
	p := models.PendingProperty{PropertyRecord: models.PropertyRecord{
		ID:                 id,
		UID:                uid,
		OwnerWalletAddress: ownerWallet,
		ParcelNumber:       parcel,
		Location:           "Nairobi",
		FileURLs:           models.FileURLs{"titleDeedFile": "https://files.test/deed.pdf"},
		Status:             models.PropertyStatusPending,
		SubmittedAt:        testNow.Add(-time.Hour),
	}}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// notificationsFor returns every notification for uid
func notificationsFor(t *testing.T, db *gorm.DB, uid string) []models.Notification {
	t.Helper()
	var out []models.Notification
	require.NoError(t, db.Where("user_id = ?", uid).Order("id").Find(&out).Error)
	return out
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func fileInput(field, name, content string) services.FileInput {
	return services.FileInput{
		Field:       field,
		Filename:    name,
		ContentType: "application/pdf",
		Body:        bytes.NewBufferString(content),
	}
}
