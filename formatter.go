// formatter.go
package main

import "message-relay/synthesizer"

// maxReplyLength is the Cloud API's maximum text-message body size.
const maxReplyLength = 4000

// apologyReply is sent when the synthesizer fails. The failure detail stays
// in the logs; it must never travel out over the messaging channel.
const apologyReply = "Sorry, I couldn't process your message right now. Please try again in a moment."

// formatReply turns a synthesizer result into the outbound reply body.
// Whatever came back, the returned string fits the transport limit.
func formatReply(result synthesizer.Result) string {
	var body string
	switch {
	case result.Answer != "":
		body = result.Answer
	case result.Failed:
		body = apologyReply
	case result.Raw != "":
		body = result.Raw
	default:
		body = apologyReply
	}
	return truncateReply(body)
}

// truncateReply enforces the transport limit, counting characters the way
// the Cloud API does. Anything longer than the limit keeps its first 3997
// characters and gains a trailing ellipsis marker.
func truncateReply(body string) string {
	runes := []rune(body)
	if len(runes) <= maxReplyLength {
		return body
	}
	return string(runes[:maxReplyLength-3]) + "..."
}
