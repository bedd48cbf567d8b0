// whatsapp.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIURL = "https://graph.facebook.com/v19.0"

// Config holds the Cloud API send settings
type Config struct {
	AccessToken string
	BaseURL     string
	Timeout     time.Duration
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: defaultAPIURL,
		Timeout: 30 * time.Second,
	}
}

// Client sends messages through the WhatsApp Cloud API
type Client struct {
	config Config
	client *http.Client
}

func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultAPIURL
	}
	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// SendText delivers a text message to a user through the per-number send
// endpoint. phoneNumberID is the business number the reply goes out on; it
// comes from the inbound payload's metadata so replies leave on the same
// channel the message arrived through.
func (c *Client) SendText(ctx context.Context, phoneNumberID, to, body string) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	payload := textMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error creating WhatsApp payload: %v", err)
	}

	apiURL := fmt.Sprintf("%s/%s/messages", c.config.BaseURL, phoneNumberID)

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating WhatsApp request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending to WhatsApp: %v", err)
	}
	defer resp.Body.Close()

	waResp, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whatsapp error (status %d): %s", resp.StatusCode, string(waResp))
	}

	return nil
}
