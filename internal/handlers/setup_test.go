package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/localnerve/landtoken/internal/config"
	"github.com/localnerve/landtoken/internal/database"
	"github.com/localnerve/landtoken/internal/handlers"
	"github.com/localnerve/landtoken/internal/models"
	"github.com/localnerve/landtoken/internal/services"
	"github.com/localnerve/landtoken/internal/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	ownerWallet    = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	buyerWallet    = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	sellerWallet   = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
	advocateWallet = "0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb"
	mintTxHash     = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
	finalTxHash    = "0x2a3fdd4b4d9b1ac9ad0e7e1a0f3e9a5c4c3b2a1908f7e6d5c4b3a29180706050"
	stagingID      = "0x7c3fd1c6b9f2f2a6d1e3e4a5b6c7d8e9f0a1b2c3d4e5f60718293a4b5c6d7e8f"
)

// memoryUploader keeps uploaded objects in memory
type memoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (u *memoryUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = data
	return "https://files.test/" + key, nil
}

// testApp is a fully wired API backed by an in-memory database
type testApp struct {
	t        *testing.T
	app      *fiber.App
	db       *gorm.DB
	verifier *services.JWTVerifier
	uploads  *memoryUploader
}

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

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := setupTestDB(t)
	log := zaptest.NewLogger(t)
	verifier := &services.JWTVerifier{Secret: []byte("handler-test-secret")}
	uploads := &memoryUploader{objects: map[string][]byte{}}

	gate := &services.IdentityGate{Verifier: verifier, DB: db}
	notifier := services.NewNotifier(db, nil, log)
	reviews := services.NewReviewService(db, notifier, log)
	submissions := services.NewSubmissionService(db, uploads, notifier, log)
	transactions := services.NewTransactionService(db, uploads, notifier, log)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(log)})
	router := &handlers.Router{
		Gate:          gate,
		Properties:    &handlers.PropertyHandler{Submissions: submissions, Reviews: reviews},
		Applications:  &handlers.ApplicationHandler{Submissions: submissions, Reviews: reviews},
		Transactions:  &handlers.TransactionHandler{Transactions: transactions, Gate: gate},
		Notifications: &handlers.NotificationHandler{Notifier: notifier},
		Health: &handlers.HealthHandler{
			Config: &config.Config{DBType: "sqlite", DBDatabase: ":memory:", AuthProvider: config.AuthProviderJWT},
			DB:     db,
			Logger: log,
		},
	}
	router.Register(app)
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "Not Found")
	})

	seed := []models.User{
		{ID: "admin-1", FirstName: "Ada", Email: "ada@example.com", IsAdmin: true},
		{ID: "adv-1", FirstName: "Wanjiru", Email: "wanjiru@example.com", IsAdvocate: true, WalletAddress: strp(advocateWallet)},
		{ID: "owner-1", FirstName: "Otieno", WalletAddress: strp(ownerWallet)},
		{ID: "buyer-1", FirstName: "Baraka", IDNumber: "11111111", WalletAddress: strp(buyerWallet)},
		{ID: "seller-1", FirstName: "Saida", IDNumber: "22222222", WalletAddress: strp(sellerWallet)},
		{ID: "stranger-1", FirstName: "Juma"},
	}
	require.NoError(t, db.Create(&seed).Error)

	return &testApp{t: t, app: app, db: db, verifier: verifier, uploads: uploads}
}

func strp(s string) *string { return &s }

// token signs a bearer token for uid
func (a *testApp) token(uid string) string {
	a.t.Helper()
	tok, err := a.verifier.SignToken(services.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   uid,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	require.NoError(a.t, err)
	return tok
}

// do runs a request as uid; an empty uid sends no credential
func (a *testApp) do(req *http.Request, uid string) (int, map[string]interface{}) {
	a.t.Helper()
	if uid != "" {
		req.Header.Set("Authorization", "Bearer "+a.token(uid))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)

	out := map[string]interface{}{}
	if len(body) > 0 && body[0] == '{' {
		require.NoError(a.t, json.Unmarshal(body, &out), string(body))
	} else if len(body) > 0 && body[0] == '[' {
		var list []interface{}
		require.NoError(a.t, json.Unmarshal(body, &list), string(body))
		out["items"] = list
	}
	return resp.StatusCode, out
}

func (a *testApp) postJSON(path, uid string, payload interface{}) (int, map[string]interface{}) {
	a.t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(a.t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, uid)
}

func (a *testApp) get(path, uid string) (int, map[string]interface{}) {
	a.t.Helper()
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), uid)
}

// formFile is one file part of a multipart request
type formFile struct {
	Field, Name, Content string
}

// postForm sends a multipart form; values may repeat a field
func (a *testApp) postForm(path, uid string, values [][2]string, files []formFile) (int, map[string]interface{}) {
	a.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range values {
		require.NoError(a.t, w.WriteField(kv[0], kv[1]))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		require.NoError(a.t, err)
		_, err = part.Write([]byte(f.Content))
		require.NoError(a.t, err)
	}
	require.NoError(a.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return a.do(req, uid)
}
