package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/N1XSS/controle-siscomex-test/internal/config"
	"github.com/N1XSS/controle-siscomex-test/internal/notify"
	"github.com/N1XSS/controle-siscomex-test/internal/sync"
)

func TestWhatsApp_SendsSummary(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/message/sendText/prod", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sink := notify.NewWhatsApp(config.WhatsAppConfig{
		Enabled:   true,
		BaseURL:   srv.URL,
		Instance:  "prod",
		APIKey:    "secret",
		RemoteJID: "5511999999999",
	})

	summary := sync.NewSummary("discover-new", time.Now())
	summary.AddSuccess()
	require.NoError(t, sink.SyncCompleted(context.Background(), summary))

	assert.Equal(t, "5511999999999", body["number"])
	assert.Contains(t, body["text"], "discover-new")
}

func TestWhatsApp_DisabledIsNoop(t *testing.T) {
	sink := notify.NewWhatsApp(config.WhatsAppConfig{Enabled: false})
	require.NoError(t, sink.SyncCompleted(context.Background(), sync.NewSummary("full", time.Now())))
}

func TestWhatsApp_ErrorStatusSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sink := notify.NewWhatsApp(config.WhatsAppConfig{
		Enabled:  true,
		BaseURL:  srv.URL,
		Instance: "prod",
	})
	assert.Error(t, sink.SyncCompleted(context.Background(), sync.NewSummary("full", time.Now())))
}
