package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/localnerve/landtoken/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrevoMailerDisabledWithoutKey(t *testing.T) {
	assert.Nil(t, services.NewBrevoMailer("", "from@example.com", "From"))
}

func TestBrevoMailerSend(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/smtp/email", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<201@smtp-relay.mailin.fr>"}`))
	}))
	defer server.Close()

	m := services.NewBrevoMailer("secret-key", "nexusapp@localhost", "Nexus App")
	m.SetBasePath(server.URL)

	id, err := m.Send(context.Background(), services.Email{
		ToAddress: "ada@example.com",
		ToName:    "Ada",
		Subject:   "Hello",
		HTML:      "<b>Hi</b>",
	})
	require.NoError(t, err)
	assert.Equal(t, "<201@smtp-relay.mailin.fr>", id)

	assert.Equal(t, "Hello", got["subject"])
	assert.Equal(t, "<b>Hi</b>", got["htmlContent"])
	assert.Equal(t, map[string]interface{}{"email": "nexusapp@localhost", "name": "Nexus App"}, got["sender"])
	assert.Equal(t, []interface{}{map[string]interface{}{"email": "ada@example.com", "name": "Ada"}}, got["to"])
}

func TestBrevoMailerProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized","message":"Key not found"}`))
	}))
	defer server.Close()

	m := services.NewBrevoMailer("bad-key", "nexusapp@localhost", "Nexus App")
	m.SetBasePath(server.URL)

	_, err := m.Send(context.Background(), services.Email{ToAddress: "ada@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Key not found")
}
