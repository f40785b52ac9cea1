package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/N1XSS/controle-siscomex-test/internal/config"
	"github.com/N1XSS/controle-siscomex-test/internal/sync"
)

// WhatsApp posts run summaries to an Evolution API instance.
type WhatsApp struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

// NewWhatsApp creates the Evolution API sink.
func NewWhatsApp(cfg config.WhatsAppConfig) *WhatsApp {
	return &WhatsApp{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// SyncCompleted sends a plain-text summary message.
func (w *WhatsApp) SyncCompleted(ctx context.Context, summary *sync.Summary) error {
	if !w.cfg.Enabled {
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"number": w.cfg.RemoteJID,
		"text":   renderMessage(summary),
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/message/sendText/%s", strings.TrimSuffix(w.cfg.BaseURL, "/"), w.cfg.Instance)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", w.cfg.APIKey)

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("evolution api returned status %d", resp.StatusCode)
	}
	return nil
}

func renderMessage(summary *sync.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sincronização %s concluída\n", summary.Pipeline)
	fmt.Fprintf(&b, "%s\n", summary.String())
	if len(summary.Errors) > 0 {
		fmt.Fprintf(&b, "Primeiros erros:\n")
		for i, e := range summary.Errors {
			if i == 5 {
				fmt.Fprintf(&b, "… e mais %d\n", len(summary.Errors)-i)
				break
			}
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	return b.String()
}
