package main

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/homeledger/backend/internal/claims"
	v1 "github.com/homeledger/backend/internal/controllers/v1"
	"github.com/homeledger/backend/internal/ledger"
	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/registry"
	"github.com/homeledger/backend/internal/router"
	"github.com/homeledger/backend/internal/storage"
	"github.com/homeledger/backend/internal/types"
)

func main() {
	// A .env file is optional, real environment variables win.
	_ = godotenv.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	store, err := storage.NewFileStore(dataDir)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	reg := registry.New(store)
	claimService := claims.New(store, reg, log.Logger)
	ledgerService := ledger.New(store, reg, claimService, log.Logger)

	co := v1.Controller{
		Registry: reg,
		Ledger:   ledgerService,
		Claims:   claimService,
	}

	// Make sure the current month exists and is synced once a day so
	// that recurring entries show up without manual intervention.
	if os.Getenv("AUTO_PROVISION") == "true" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc("@daily", func() {
			ensureCurrentMonth(ledgerService)
		})
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
		scheduler.Start()
		defer scheduler.Stop()

		ensureCurrentMonth(ledgerService)
	}

	r, err := router.Config()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	router.AttachRoutes(co, r.Group("/"))

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

// ensureCurrentMonth creates or syncs the ledger for the current month.
func ensureCurrentMonth(s *ledger.Service) {
	month := types.MonthOf(time.Now())

	_, err := s.CreateMonth(month)
	if err == nil {
		log.Info().Str("month", month.String()).Msg("current month created")
		return
	}
	if errors.Is(err, models.ErrMonthExists) {
		if _, err := s.SyncMonth(month); err != nil {
			log.Error().Err(err).Str("month", month.String()).Msg("current month sync failed")
		}
		return
	}

	log.Error().Err(err).Str("month", month.String()).Msg("current month provisioning failed")
}
