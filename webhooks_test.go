// webhooks_test.go
package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"message-relay/synthesizer"
	"message-relay/whatsapp"
)

const textPayload = `{
	"object": "whatsapp_business_account",
	"entry": [{
		"id": "100000000000001",
		"changes": [{
			"field": "messages",
			"value": {
				"messaging_product": "whatsapp",
				"metadata": {"phone_number_id": "111222333"},
				"contacts": [{"profile": {"name": "Ada"}, "wa_id": "5215512345678"}],
				"messages": [{
					"from": "5215512345678",
					"id": "wamid.ABC",
					"timestamp": "1717000000",
					"type": "text",
					"text": {"body": "hello"}
				}]
			}
		}]
	}]
}`

// capturedSend records what the fake Graph API received
type capturedSend struct {
	path string
	auth string
	body map[string]interface{}
}

// setupRelay wires the package globals to fake collaborators and returns a
// channel that yields each outbound send the fake Graph API receives.
func setupRelay(t *testing.T, synthHandler http.HandlerFunc) chan capturedSend {
	t.Helper()

	sends := make(chan capturedSend, 4)

	graphServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &decoded))
		sends <- capturedSend{
			path: r.URL.Path,
			auth: r.Header.Get("Authorization"),
			body: decoded,
		}
		w.Write([]byte(`{"messages":[{"id":"wamid.reply"}]}`))
	}))
	t.Cleanup(graphServer.Close)

	synthServer := httptest.NewServer(synthHandler)
	t.Cleanup(synthServer.Close)

	config = Config{
		VerifyToken:   "relay-verify-token",
		WhatsAppToken: "test-wa-token",
	}
	synth = synthesizer.New(synthesizer.Config{BaseURL: synthServer.URL, Timeout: 2 * time.Second})
	sender = whatsapp.New(whatsapp.Config{AccessToken: "test-wa-token", BaseURL: graphServer.URL, Timeout: 2 * time.Second})

	return sends
}

func TestVerificationHandshake(t *testing.T) {
	config = Config{VerifyToken: "relay-verify-token"}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid subscription returns challenge",
			query:      "hub.mode=subscribe&hub.verify_token=relay-verify-token&hub.challenge=ABC123",
			wantStatus: http.StatusOK,
			wantBody:   "ABC123",
		},
		{
			name:       "wrong token is rejected",
			query:      "hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=ABC123",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong mode is rejected",
			query:      "hub.mode=unsubscribe&hub.verify_token=relay-verify-token&hub.challenge=ABC123",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no params is an endpoint check",
			query:      "",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/webhook?"+tt.query, nil)
			rec := httptest.NewRecorder()
			handleWebhook(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestStatusUpdateAcknowledgedWithoutProcessing(t *testing.T) {
	synthCalls := 0
	sends := setupRelay(t, func(w http.ResponseWriter, r *http.Request) {
		synthCalls++
	})

	payload := `{"entry":[{"changes":[{"value":{"statuses":[{"id":"wamid.1","status":"read"}]}}]}]}`
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handleWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, synthCalls)
	assert.Empty(t, sends)
}

func TestMalformedPayloadAcknowledged(t *testing.T) {
	synthCalls := 0
	sends := setupRelay(t, func(w http.ResponseWriter, r *http.Request) {
		synthCalls++
	})

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(`{"entry": []}`))
	rec := httptest.NewRecorder()
	handleWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, synthCalls)
	assert.Empty(t, sends)
}

func TestEndToEndTextMessage(t *testing.T) {
	sends := setupRelay(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req["query"])
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer":"X","sources":[],"route_decision":"both"}`))
	})

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(textPayload))
	rec := httptest.NewRecorder()
	handleWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, sends, 1)
	send := <-sends
	assert.Equal(t, "/111222333/messages", send.path)
	assert.Equal(t, "Bearer test-wa-token", send.auth)
	assert.Equal(t, "whatsapp", send.body["messaging_product"])
	assert.Equal(t, "5215512345678", send.body["to"])
	assert.Equal(t, "text", send.body["type"])
	text := send.body["text"].(map[string]interface{})
	assert.Equal(t, "X", text["body"])
}

func TestEndToEndDownstreamFailure(t *testing.T) {
	sends := setupRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"Pipeline execution failed: boom"}`))
	})

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(textPayload))
	rec := httptest.NewRecorder()
	handleWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, sends, 1)
	send := <-sends
	text := send.body["text"].(map[string]interface{})
	assert.Equal(t, apologyReply, text["body"])
	assert.NotContains(t, text["body"], "boom")
}

func TestEndToEndDownstreamTimeout(t *testing.T) {
	sends := setupRelay(t, func(w http.ResponseWriter, r *http.Request) {})

	slowServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"answer":"too late"}`))
	}))
	t.Cleanup(slowServer.Close)
	// Tight timeout so the test doesn't wait on the real default
	synth = synthesizer.New(synthesizer.Config{BaseURL: slowServer.URL, Timeout: 50 * time.Millisecond})

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(textPayload))
	rec := httptest.NewRecorder()
	handleWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, sends, 1)
	send := <-sends
	text := send.body["text"].(map[string]interface{})
	assert.Equal(t, apologyReply, text["body"])
}

func TestWebhookRejectsOtherMethods(t *testing.T) {
	req := httptest.NewRequest("DELETE", "/webhook", nil)
	rec := httptest.NewRecorder()
	handleWebhook(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
