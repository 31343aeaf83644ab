package waha

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied by NewClient
const (
	DefaultSession = "default"
	DefaultTimeout = 10 * time.Second
)

// Config configures the WAHA gateway client
type Config struct {
	BaseURL string
	APIKey  string
	Session string
	Timeout time.Duration
}

// Client sends WhatsApp messages through a WAHA gateway. It never retries.
type Client struct {
	baseURL    string
	apiKey     string
	session    string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

type sendTextRequest struct {
	Session string `json:"session"`
	ChatID  string `json:"chatId"`
	Text    string `json:"text"`
}

// NewClient creates a client; trailing slashes of the base URL are dropped
func NewClient(cfg Config, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Session == "" {
		cfg.Session = DefaultSession
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		session:    cfg.Session,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "waha").Logger(),
	}
}

// SendMessage posts text to chatID and reports whether the gateway answered 200.
// An empty session uses the configured one. Failures are logged, not returned.
func (c *Client) SendMessage(ctx context.Context, chatID, text, session string) bool {
	if session == "" {
		session = c.session
	}
	log := c.logger.With().Str("chat_id", chatID).Str("session", session).Logger()

	body, err := json.Marshal(sendTextRequest{Session: session, ChatID: chatID, Text: text})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode message")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sendText", bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("Failed to build request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Error().Dur("timeout", c.timeout).Msg("Timeout sending message")
		} else {
			log.Error().Err(err).Msg("Request error sending message")
		}
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("Failed to send message")
		return false
	}

	log.Info().Msg("Message sent successfully")
	return true
}

// ChatID converts a phone number into a WhatsApp chat id such as 15551234567@c.us
func ChatID(phoneNumber string) (string, error) {
	var digits strings.Builder
	for _, r := range phoneNumber {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return "", fmt.Errorf("phone number %q has no digits", phoneNumber)
	}
	return digits.String() + "@c.us", nil
}
