package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/awp-finanznachrichten/archive-llm/internal/ports"
)

const (
	defaultAPIURL    = "https://api.telegram.org"
	maxResponseBytes = 64 << 10
)

// Notifier sends operator alerts to a Telegram chat via bot API.
type Notifier struct {
	apiURL   string
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier. An empty apiURL
// selects the public Bot API.
func NewNotifier(apiURL, botToken, chatID string) *Notifier {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Notifier{
		apiURL:   strings.TrimSuffix(apiURL, "/"),
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Alert posts the subject line followed by the body as plain text. File
// names and error messages are sent verbatim, so no parse mode is set.
func (n *Notifier) Alert(ctx context.Context, subject, body string) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", alertText(subject, body))
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}
	defer resp.Body.Close()

	return checkResponse(resp)
}

func alertText(subject, body string) string {
	if body == "" {
		return subject
	}
	return subject + "\n\n" + body
}

// apiResponse is the envelope every Bot API method answers with.
type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// checkResponse turns a non-ok Bot API answer into an error carrying
// Telegram's own description when one is present.
func checkResponse(resp *http.Response) error {
	var payload apiResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload)

	if resp.StatusCode == http.StatusOK && (decodeErr != nil || payload.OK) {
		return nil
	}
	if decodeErr == nil && payload.Description != "" {
		return fmt.Errorf("telegram %s: %s", resp.Status, payload.Description)
	}
	return fmt.Errorf("telegram error: %s", resp.Status)
}

// Noop discards alerts; used while notifications are disabled.
type Noop struct{}

var _ ports.Notifier = Noop{}

// Alert does nothing.
func (Noop) Alert(context.Context, string, string) error { return nil }
