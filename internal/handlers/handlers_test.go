package handlers_test

import (
	"net/http"
	"testing"

	"github.com/localnerve/landtoken/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	a := newTestApp(t)

	code, body := a.get("/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "local", body["identity"])
}

func TestErrorBody(t *testing.T) {
	a := newTestApp(t)

	code, body := a.postJSON("/review-property", "", map[string]string{"propertyId": "p-1", "action": "approve"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
	assert.Equal(t, "Authorization header is missing", body["message"])
	assert.Equal(t, body["message"], body["error"])
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "/review-property", body["url"])
	assert.Equal(t, "auth.unauthenticated", body["type"])
	assert.NotEmpty(t, body["timestamp"])

	code, body = a.get("/nowhere", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", body["type"])
}

func TestRoleGatedRoutes(t *testing.T) {
	a := newTestApp(t)

	req := map[string]string{"propertyId": "p-1", "action": "approve"}

	code, _ := a.postJSON("/review-property", "owner-1", req)
	assert.Equal(t, http.StatusForbidden, code)

	code, body := a.postJSON("/review-property", "ghost", req)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "auth.profile", body["type"])

	code, _ = a.postJSON("/get-transaction-prereqs", "owner-1", map[string]string{})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = a.postJSON("/get-transaction-prereqs", "adv-1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing seller ID, buyer ID, or parcel number", body["message"])

	code, _ = a.get("/admin/transactions", "adv-1")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestPropertyLifecycle(t *testing.T) {
	a := newTestApp(t)

	code, body := a.postForm("/add-property", "owner-1",
		[][2]string{{"parcelNumber", "NRB/1"}, {"location", "Karen"}},
		[]formFile{{Field: "titleDeedFile", Name: "deed.pdf", Content: "deed"}})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, true, body["ok"])
	id, _ := body["propertyId"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, []byte("deed"), a.uploads.objects["uploads/owner-1/property-title-deed-deed.pdf"])

	code, body = a.postForm("/add-property", "stranger-1", [][2]string{{"parcelNumber", "NRB/2"}}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "user.missing_wallet", body["type"])

	code, _ = a.postJSON("/claim-property", "admin-1", map[string]string{"propertyId": id})
	assert.Equal(t, http.StatusOK, code)

	code, body = a.postJSON("/review-property", "admin-1", map[string]string{"propertyId": id, "action": "reject"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Comment is required for rejection", body["message"])

	code, body = a.postJSON("/review-property", "admin-1", map[string]string{"propertyId": id, "action": "approve"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, map[string]interface{}{"ownerWalletAddress": ownerWallet, "parcelNumber": "NRB/1"}, body["onChainData"])

	code, body = a.postJSON("/confirm-property-mint", "admin-1", map[string]interface{}{
		"propertyId": id,
		"txHash":     mintTxHash,
		"tokenId":    12,
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "12", body["tokenId"])

	code, body = a.postJSON("/review-property", "admin-1", map[string]string{"propertyId": id, "action": "approve"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "property.already_minted", body["type"])

	code, body = a.get("/notifications", "owner-1")
	require.Equal(t, http.StatusOK, code)
	items, _ := body["items"].([]interface{})
	require.Len(t, items, 3)
	newest := items[0].(map[string]interface{})
	assert.Equal(t, "Your property NRB/1 has been minted (Token ID: 12).", newest["message"])
	assert.Equal(t, false, newest["read"])
}

func TestAdvocateApplication(t *testing.T) {
	a := newTestApp(t)

	code, body := a.postForm("/submit-advocate-application", "owner-1",
		[][2]string{{"full-name", "Otieno Odhiambo"}, {"email", "otieno@example.com"}, {"cert-number", "LSK/1"}},
		[]formFile{{Field: "cert-file", Name: "cert.pdf", Content: "cert"}})
	require.Equal(t, http.StatusCreated, code, body)
	id, _ := body["applicationId"].(string)
	require.NotEmpty(t, id)

	var app models.AdvocateApplication
	require.NoError(t, a.db.First(&app, "id = ?", id).Error)
	assert.Equal(t, "Otieno Odhiambo", app.FullName)
	assert.Equal(t, "https://files.test/uploads/owner-1/advocate-practicing-cert-cert.pdf", app.FileURLs["cert-file"])

	code, body = a.postJSON("/review-advocate-application", "admin-1", map[string]string{"applicationId": id, "action": "approve"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, map[string]interface{}{"advocateWalletAddress": ownerWallet}, body["onChainData"])

	// The new advocate may now broker transactions
	code, _ = a.postJSON("/get-transaction-prereqs", "owner-1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTransactionLifecycle(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.db.Create(&models.ApprovedProperty{
		PropertyRecord: models.PropertyRecord{ID: "p-1", UID: "seller-1", ParcelNumber: "NRB/1", Status: models.PropertyStatusApproved},
		TokenID:        strp("12"),
	}).Error)

	code, body := a.postJSON("/get-transaction-prereqs", "adv-1", map[string]string{
		"sellerNationalId": "22222222",
		"buyerNationalId":  "11111111",
		"parcelNumber":     "NRB/1",
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, map[string]interface{}{"sellerWalletAddress": sellerWallet, "buyerWalletAddress": buyerWallet, "tokenId": "12"}, body)

	code, body = a.postJSON("/create-transaction", "adv-1", map[string]interface{}{
		"parcelNumber":    "NRB/1",
		"location":        "Nairobi",
		"seller-id":       "22222222",
		"seller-name":     "Saida",
		"buyer-id":        "11111111",
		"buyer-name":      "Baraka",
		"advocateAddress": advocateWallet,
		"tokenId":         12,
		"txHash":          mintTxHash,
	})
	require.Equal(t, http.StatusCreated, code, body)
	txID, _ := body["transactionId"].(string)
	require.NotEmpty(t, txID)

	code, body = a.postForm("/advocate-upload-docs", "adv-1",
		[][2]string{{"transactionId", txID}, {"docNames", "agreement"}, {"docNames", "rates"}},
		[]formFile{{Field: "files", Name: "a.pdf", Content: "a"}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "File and document name mismatch", body["message"])

	code, body = a.postForm("/advocate-upload-docs", "adv-1",
		[][2]string{{"transactionId", txID}, {"docNames", "agreement"}},
		[]formFile{{Field: "files", Name: "a.pdf", Content: "a"}})
	require.Equal(t, http.StatusOK, code, body)
	docs, _ := body["uploadedDocs"].([]interface{})
	require.Len(t, docs, 1)
	doc := docs[0].(map[string]interface{})
	assert.Equal(t, "agreement", doc["name"])
	assert.Equal(t, map[string]interface{}{"uid": "adv-1", "name": "Wanjiru"}, doc["uploadedBy"])

	code, _ = a.postJSON("/verify-documents", "stranger-1", map[string]string{"transactionId": txID, "action": "accept"})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = a.postJSON("/verify-documents", "buyer-1", map[string]string{"transactionId": txID, "action": "accept"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, false, body["advanced"])

	code, body = a.postJSON("/verify-documents", "seller-1", map[string]string{"transactionId": txID, "action": "accept"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["advanced"])
	assert.Equal(t, models.TransactionStatusUnderReview, body["status"])

	code, body = a.get("/admin/transactions?queue=unassigned", "admin-1")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["items"], 1)

	code, body = a.postJSON("/admin-review-transaction", "admin-1", map[string]string{"transactionId": txID, "action": "approve"})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "transaction.inconsistent", body["type"])

	code, body = a.postJSON("/record-transaction-onchain", "adv-1", map[string]string{"transactionId": txID, "onChainTxId": stagingID})
	require.Equal(t, http.StatusOK, code, body)

	code, body = a.postJSON("/admin-review-transaction", "admin-1", map[string]string{"transactionId": txID, "action": "approve"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, map[string]interface{}{"onChainTxId": stagingID}, body["onChainData"])

	code, _ = a.postJSON("/claim-transaction", "admin-1", map[string]string{"transactionId": txID})
	assert.Equal(t, http.StatusOK, code)

	code, body = a.postJSON("/finalize-transaction", "admin-1", map[string]string{"transactionId": txID, "finalTxHash": finalTxHash})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, models.TransactionStatusApproved, body["status"])

	for _, uid := range []string{"buyer-1", "seller-1", "adv-1", "admin-1"} {
		code, body = a.get("/transactions/"+txID, uid)
		require.Equal(t, http.StatusOK, code, uid)
		assert.Equal(t, models.TransactionStatusApproved, body["status"])
	}

	code, body = a.get("/transactions/"+txID, "stranger-1")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You are not a participant in this transaction.", body["message"])

	code, _ = a.get("/transactions/missing", "buyer-1")
	assert.Equal(t, http.StatusNotFound, code)
}
