package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"business-analytics-server/internal/analytics/engine"
	"business-analytics-server/internal/audit"
	auditrepo "business-analytics-server/internal/audit/repository"
	"business-analytics-server/internal/config"
	customerrepo "business-analytics-server/internal/customer/repository"
	"business-analytics-server/internal/db"
	"business-analytics-server/internal/dispatch"
	identityrepo "business-analytics-server/internal/identity/repository"
	identityservice "business-analytics-server/internal/identity/service"
	inventoryrepo "business-analytics-server/internal/inventory/repository"
	opportunityrepo "business-analytics-server/internal/opportunity/repository"
	orderrepo "business-analytics-server/internal/order/repository"
	productrepo "business-analytics-server/internal/product/repository"
	"business-analytics-server/internal/report"
	salesreprepo "business-analytics-server/internal/salesrep/repository"
	"business-analytics-server/internal/security"
	"business-analytics-server/internal/server"
	"business-analytics-server/internal/server/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("JWT_PRIVATE_KEY: %v", err)
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("JWT_PUBLIC_KEY: %v", err)
	}
	tokens := security.NewTokenProvider(privateKey, publicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())

	orders := orderrepo.NewPostgresRepository(conn)
	eng := engine.New(engine.Deps{
		Customers:     customerrepo.NewPostgresRepository(conn),
		Orders:        orders,
		Products:      productrepo.NewPostgresRepository(conn),
		Inventory:     inventoryrepo.NewPostgresRepository(conn),
		Reps:          salesreprepo.NewPostgresRepository(conn),
		Opportunities: opportunityrepo.NewPostgresRepository(conn),
	})
	assembler := report.New(eng, orders)

	auditLogger := audit.NewLogger(auditrepo.NewPostgresRepository(conn), middleware.ClientIPFromContext)
	dispatcher := dispatch.New(dispatch.Service{Engine: eng, Reports: assembler}, tokens, auditLogger)

	login := identityservice.New(
		identityrepo.NewPostgresRepository(conn),
		security.NewHasher(cfg.BcryptCost),
		tokens,
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateWindow())
	handler := server.New(dispatcher, login, tokens, limiter)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
