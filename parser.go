// parser.go
package main

import (
	"encoding/json"
	"fmt"
)

// Skip reasons returned by parseWebhookPayload. The status-update reason is
// the normal path for delivery and read receipts, not a failure.
const (
	reasonNoEntry      = "No entry in payload"
	reasonNoChanges    = "No changes in payload"
	reasonStatusUpdate = "Status update, not a message"
)

// parseWebhookPayload decodes a raw webhook body into a ParsedMessage.
//
// The Cloud API wraps every notification in entry[].changes[].value; each
// guard below peels one layer and bails out with a distinct skip reason when
// the layer is missing. Only payloads that survive all guards carry an actual
// user message. The function is a pure transform: no logging of message
// bodies, no state.
func parseWebhookPayload(body []byte) ParsedMessage {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return ParsedMessage{Skip: true, Reason: reasonNoEntry}
	}

	if len(event.Entry) == 0 {
		return ParsedMessage{Skip: true, Reason: reasonNoEntry}
	}

	changes := event.Entry[0].Changes
	if len(changes) == 0 {
		return ParsedMessage{Skip: true, Reason: reasonNoChanges}
	}
	value := changes[0].Value

	if len(value.Messages) == 0 {
		return ParsedMessage{Skip: true, Reason: reasonStatusUpdate}
	}

	message := value.Messages[0]

	text := fmt.Sprintf("[%s message]", message.Type)
	if message.Type == "text" && message.Text != nil {
		text = message.Text.Body
	}

	contactName := "Unknown"
	if len(value.Contacts) > 0 && value.Contacts[0].Profile.Name != "" {
		contactName = value.Contacts[0].Profile.Name
	}

	return ParsedMessage{
		MessageID:     message.ID,
		SenderID:      message.From,
		Timestamp:     message.Timestamp,
		Type:          message.Type,
		Text:          text,
		ContactName:   contactName,
		PhoneNumberID: value.Metadata.PhoneNumberID,
	}
}
