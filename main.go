package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"buschat/internal/config"
	api "buschat/internal/http"
	"buschat/internal/http/handlers"
	"buschat/internal/ratelimit"
	"buschat/internal/store"
	"buschat/internal/upstream"
)

func main() {
	env := config.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	if env.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required")
	}

	var db *sql.DB
	if env.MySQLDSN != "" {
		var err error
		db, err = sql.Open("mysql", env.MySQLDSN)
		if err != nil {
			log.Fatalf("mysql open failed: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			log.Printf("warning: mysql unreachable, sessions will not survive restarts: %v", err)
		}
		cancel()
	} else {
		log.Println("MYSQL_DSN not set, session persistence disabled")
	}

	var cache store.Cache
	if env.RedisAddr != "" {
		redisCache, err := store.NewRedisCache(store.RedisConfig{Addr: env.RedisAddr, DB: env.RedisDB})
		if err != nil {
			log.Printf("warning: redis unreachable, falling back to in-memory cache: %v", err)
			cache = store.NewMemoryCache()
		} else {
			cache = redisCache
		}
	} else {
		cache = store.NewMemoryCache()
	}
	defer cache.Close()

	var st *store.Store
	if db != nil {
		st = store.New(db)
		schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := st.EnsureSchema(schemaCtx); err != nil {
			log.Printf("warning: schema bootstrap failed, persistence may be degraded: %v", err)
		}
		cancel()
	}

	registry := store.NewRegistry(st, cache, func(onExpired func()) (*upstream.Client, error) {
		return upstream.New(upstream.Config{
			BaseURL:          env.UpstreamBaseURL,
			Timeout:          env.UpstreamTimeout,
			OnSessionExpired: onExpired,
		})
	})

	apiHandlers := &handlers.API{
		Registry:        registry,
		Store:           st,
		Limiter:         ratelimit.NewSessionLimiter(ratelimit.DefaultConfig()),
		PaymentAttempts: env.PaymentAttempts,
		PaymentDelay:    env.PaymentDelay,
	}

	r := api.NewRouter(apiHandlers, []byte(env.SessionSecret))

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Gateway listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly.")
}
