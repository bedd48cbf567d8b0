// main.go
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"message-relay/synthesizer"
	"message-relay/whatsapp"
)

var (
	config Config
	synth  *synthesizer.Client
	sender *whatsapp.Client
)

func loadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Printf("💡 Using platform environment variables (no .env file)")
	}

	config = Config{
		VerifyToken:    getEnvOrDie("VERIFY_TOKEN"),
		WhatsAppToken:  getEnvOrDie("WHATSAPP_TOKEN"),
		SynthesizerURL: getEnvOrDie("SYNTHESIZER_URL"),
		GraphAPIURL:    getEnvOrDefault("GRAPH_API_URL", ""),
		Port:           getEnvOrDefault("PORT", "8080"),
	}
}

func setupClients() {
	synthConfig := synthesizer.DefaultConfig()
	synthConfig.BaseURL = config.SynthesizerURL
	synthConfig.Timeout = getEnvDuration("SYNTHESIZER_TIMEOUT", synthConfig.Timeout)
	synth = synthesizer.New(synthConfig)

	waConfig := whatsapp.DefaultConfig()
	waConfig.AccessToken = config.WhatsAppToken
	if config.GraphAPIURL != "" {
		waConfig.BaseURL = config.GraphAPIURL
	}
	waConfig.Timeout = getEnvDuration("SEND_TIMEOUT", waConfig.Timeout)
	sender = whatsapp.New(waConfig)

	log.Printf("⚙️ Clients configured (synthesizer timeout: %v, send timeout: %v)",
		synthConfig.Timeout, waConfig.Timeout)
}

func getEnvOrDie(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("❌ %s environment variable is not set", key)
	}
	return value
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("❌ %s is not a valid duration: %v", key, err)
	}
	return d
}

func recoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("❌ PANIC RECOVERED: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("🚀 Starting Message Relay...")

	loadConfig()
	setupClients()

	router := http.NewServeMux()
	router.HandleFunc("/webhook", recoverMiddleware(handleWebhook))
	router.HandleFunc("/send", recoverMiddleware(handleSendMessage))
	router.HandleFunc("/health", recoverMiddleware(handleHealth))

	log.Printf("🌐 Server starting on port %s", config.Port)
	log.Fatal(http.ListenAndServe(":"+config.Port, router))
}
