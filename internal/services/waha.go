package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"picxury_api/internal/config"
)

// Messenger delivers WhatsApp text messages
type Messenger interface {
	SendMessage(chatId, text string) error
}

type WahaService struct {
	baseURL string
	apiKey  string
	session string
	client  *http.Client
}

func NewWahaService(cfg config.WahaConfig) *WahaService {
	return &WahaService{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		session: cfg.Session,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// post calls a WAHA endpoint with a JSON body
func (s *WahaService) post(ctx context.Context, endpoint string, payload map[string]string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s answered %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// chatStep is one call of the human-like delivery sequence and the pause
// taken after it
type chatStep struct {
	endpoint string
	pause    time.Duration
}

var deliverySteps = []chatStep{
	{endpoint: "/api/sendSeen", pause: 100 * time.Millisecond},
	{endpoint: "/api/startTyping", pause: 150 * time.Millisecond},
	{endpoint: "/api/stopTyping", pause: 50 * time.Millisecond},
}

// NormalizeChatID normalizes WhatsApp chat IDs by adding required suffixes and standardizing country codes
func NormalizeChatID(chatId string) string {
	chatId = strings.TrimSpace(chatId)

	// If it's already a group ID, it's correct
	if strings.HasSuffix(chatId, "@g.us") {
		return chatId
	}

	// Remove @c.us suffix temporarily if it exists for easier processing
	chatId = strings.TrimSuffix(chatId, "@c.us")

	// Keep digits only: phones are stored as "+57 300 123 4567" and the like
	chatId = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, chatId)

	// Colombian mobile numbers are 10 digits starting with 3
	if len(chatId) == 10 && strings.HasPrefix(chatId, "3") {
		chatId = "57" + chatId
	}

	// Re-add required suffix
	return chatId + "@c.us"
}

// SendMessage marks the chat seen, simulates typing and then sends text
func (s *WahaService) SendMessage(chatId, text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	chatId = NormalizeChatID(chatId)
	for _, step := range deliverySteps {
		if err := s.post(ctx, step.endpoint, map[string]string{"chatId": chatId, "session": s.session}); err != nil {
			return err
		}
		time.Sleep(step.pause)
	}

	return s.post(ctx, "/api/sendText", map[string]string{
		"chatId":  chatId,
		"text":    text,
		"session": s.session,
	})
}
