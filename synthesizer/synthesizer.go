// synthesizer.go
package synthesizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Config holds the connection settings for the knowledge synthesizer service
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a default configuration. The timeout is generous
// because a single query can fan out across several retrieval agents before
// synthesis completes.
func DefaultConfig() Config {
	return Config{
		Timeout: 60 * time.Second,
	}
}

// Client calls the synthesizer's /invoke endpoint
type Client struct {
	config Config
	client *http.Client
}

func New(config Config) *Client {
	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Result is the flattened outcome of one /invoke call. Every distinguishable
// downstream error (transport, timeout, non-2xx, error body) collapses into
// Failed+Detail before crossing back into the relay; Detail is for logs only
// and is never shown to the end user. Raw carries the response text when a
// 2xx body matched neither the answer nor the error shape.
type Result struct {
	Answer string
	Failed bool
	Detail string
	Raw    string
}

type invokeRequest struct {
	Query string `json:"query"`
}

type invokeResponse struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	RouteDecision string   `json:"route_decision"`
	Detail        string   `json:"detail"`
}

// Invoke sends the user's message text to the synthesizer and waits for the
// blocking response. It never returns an error: failures are reported
// through the Result so the caller's acknowledgment path stays unconditional.
func (c *Client) Invoke(ctx context.Context, query string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	jsonData, err := json.Marshal(invokeRequest{Query: query})
	if err != nil {
		return Result{Failed: true, Detail: fmt.Sprintf("error marshaling invoke payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/invoke", bytes.NewBuffer(jsonData))
	if err != nil {
		return Result{Failed: true, Detail: fmt.Sprintf("error creating invoke request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return Result{Failed: true, Detail: fmt.Sprintf("error calling synthesizer: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Failed: true, Detail: fmt.Sprintf("error reading synthesizer response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp invokeResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Detail != "" {
			return Result{Failed: true, Detail: fmt.Sprintf("synthesizer error (status %d): %s", resp.StatusCode, errResp.Detail)}
		}
		return Result{Failed: true, Detail: fmt.Sprintf("unexpected status from synthesizer: %d - %s", resp.StatusCode, string(respBody))}
	}

	var invokeResp invokeResponse
	if err := json.Unmarshal(respBody, &invokeResp); err != nil {
		// 2xx but not JSON we recognize; hand the text back as-is
		return Result{Raw: string(respBody)}
	}

	if invokeResp.Answer != "" {
		log.Printf("🤖 Synthesizer answered in %dms (route: %s, %d sources)",
			time.Since(start).Milliseconds(), invokeResp.RouteDecision, len(invokeResp.Sources))
		return Result{Answer: invokeResp.Answer}
	}
	if invokeResp.Detail != "" {
		return Result{Failed: true, Detail: invokeResp.Detail}
	}

	return Result{Raw: string(respBody)}
}
