// handlers.go
package main

import (
	"encoding/json"
	"net/http"
)

// handleSendMessage lets an operator push a message to a user directly,
// bypassing the webhook pipeline. Useful for announcements and manual
// follow-ups; reuses the same dispatcher as the relay.
func handleSendMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		LogError("Error parsing send message request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.PhoneNumberID == "" || req.To == "" || req.Message == "" {
		http.Error(w, "phone_number_id, to and message are required", http.StatusBadRequest)
		return
	}

	if err := sender.SendText(r.Context(), req.PhoneNumberID, req.To, truncateReply(req.Message)); err != nil {
		LogError("Error sending message: %v", err)
		http.Error(w, "Error sending message", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// handleHealth reports liveness and which collaborators are configured.
// No secrets in the body.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "healthy",
		"services": map[string]string{
			"synthesizer": configuredLabel(config.SynthesizerURL != ""),
			"whatsapp":    configuredLabel(config.WhatsAppToken != ""),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not_configured"
}
