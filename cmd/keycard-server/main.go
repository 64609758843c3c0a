package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frontdesk-labs/keycard/internal/config"
	"github.com/frontdesk-labs/keycard/internal/db"
	"github.com/frontdesk-labs/keycard/internal/httpapi"
	"github.com/frontdesk-labs/keycard/internal/keycard/service"
	"github.com/frontdesk-labs/keycard/internal/keycard/store/sqlite"
)

func main() {
	logger := log.New(os.Stdout, "keycard-server ", log.LstdFlags|log.LUTC)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, conn, db.SeedDevOptions{}); err != nil {
			logger.Fatalf("seed dev: %v", err)
		}
	}

	writer := db.NewWorker(conn)
	defer writer.Close()

	// Stores
	roomStore := sqlite.NewRoomStore(conn, writer)
	bookingStore := sqlite.NewBookingStore(conn, writer)
	eventStore := sqlite.NewVerifyEventStore(conn, writer)

	// Services.  Issuance and the reader share one lock arena so same-room
	// rotation and catch-up cannot interleave.
	locks := service.NewRoomLocks()
	roomSvc := service.NewRoomService(roomStore)
	issuanceSvc := service.NewIssuanceService(roomStore, bookingStore, locks)
	readerSvc := service.NewReaderService(roomStore, eventStore, locks)
	identitySvc := service.NewIdentityService(bookingStore, cfg.PhoneSuffixDigits)
	ledgerSvc := service.NewLedgerService(bookingStore)

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:   logger,
		Addr:     cfg.HTTPAddr,
		Rooms:    roomSvc,
		Issuance: issuanceSvc,
		Reader:   readerSvc,
		Identity: identitySvc,
		Ledger:   ledgerSvc,
	})

	go func() {
		logger.Printf("listening on %s (env=%s, db=%s)", cfg.HTTPAddr, cfg.Env, cfg.DBPath)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
