package handler

import (
	"log"
	"net/http"

	"github.com/arnavshah/shift-roster-ai/pkg/app"
	"github.com/arnavshah/shift-roster-ai/pkg/config"
	"github.com/arnavshah/shift-roster-ai/pkg/logging"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	// Serverless instances have no writable disk outside /tmp
	if cfg.DatabaseURL == "" && cfg.DataPath == config.Default().DataPath {
		cfg.DataPath = "/tmp/usage.db"
	}
	cfg.LogFile = ""

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: "json"})
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		log.Fatalf("could not wire server: %v", err)
	}
	r = a.Router
}

// Handler is the entry point for Vercel Go Runtime. Forms live in the
// memory of one instance and POST /generate finishes after its response,
// so clients on Vercel should use the stateless POST /api/schedule.
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
