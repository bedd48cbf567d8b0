// logger.go
package main

import (
	"log"
	"os"
	"strings"
)

// Leveled logging helpers over the standard logger.
// Debug output is opt-in via LOG_LEVEL=debug so production logs stay
// readable under webhook traffic.

var debugEnabled = strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug")

func LogError(format string, args ...interface{}) {
	log.Printf("❌ "+format, args...)
}

func LogWarn(format string, args ...interface{}) {
	log.Printf("⚠️ "+format, args...)
}

func LogInfo(format string, args ...interface{}) {
	log.Printf(format, args...)
}

func LogDebug(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("🔍 "+format, args...)
	}
}
