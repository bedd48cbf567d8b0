// types.go
package main

// WebhookEvent represents the incoming webhook event from the WhatsApp Cloud API
type WebhookEvent struct {
	Object string      `json:"object"`
	Entry  []EntryData `json:"entry"`
}

// EntryData represents each entry in the webhook event
type EntryData struct {
	ID      string       `json:"id"`
	Changes []ChangeData `json:"changes"`
}

// ChangeData wraps the actual notification contents
type ChangeData struct {
	Field string    `json:"field"`
	Value ValueData `json:"value"`
}

// ValueData carries message metadata, contacts and message events
type ValueData struct {
	MessagingProduct string        `json:"messaging_product"`
	Metadata         MetadataData  `json:"metadata"`
	Contacts         []ContactData `json:"contacts"`
	Messages         []MessageData `json:"messages"`
	Statuses         []StatusData  `json:"statuses"`
}

// MetadataData identifies the business phone number the event arrived on
type MetadataData struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// ContactData represents the WhatsApp user behind the message
type ContactData struct {
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
	WaID string `json:"wa_id"`
}

// MessageData represents the actual message content
type MessageData struct {
	From      string    `json:"from"`
	ID        string    `json:"id"`
	Timestamp string    `json:"timestamp"`
	Type      string    `json:"type"`
	Text      *TextData `json:"text"`
}

// TextData holds the body of a text message
type TextData struct {
	Body string `json:"body"`
}

// StatusData represents a delivery/read receipt from WhatsApp
type StatusData struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// ParsedMessage is the classifier's view of one webhook payload.
// When Skip is true only Reason is meaningful; the remaining fields are
// left at their zero values and ignored by the pipeline.
type ParsedMessage struct {
	Skip          bool
	Reason        string
	MessageID     string
	SenderID      string
	Timestamp     string
	Type          string
	Text          string
	ContactName   string
	PhoneNumberID string
}

// SendMessageRequest is the body of the direct /send endpoint
type SendMessageRequest struct {
	PhoneNumberID string `json:"phone_number_id"`
	To            string `json:"to"`
	Message       string `json:"message"`
}

// Config holds all environment-provided settings. Credentials are injected
// into the synthesizer and whatsapp clients at construction rather than
// read from the environment at call time.
type Config struct {
	VerifyToken    string
	WhatsAppToken  string
	GraphAPIURL    string
	SynthesizerURL string
	Port           string
}
