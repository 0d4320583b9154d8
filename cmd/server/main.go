package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/cims/internal/adapter/handler"
	"github.com/rl1809/cims/internal/adapter/storage"
	"github.com/rl1809/cims/internal/app"
	"github.com/rl1809/cims/internal/config"
	"github.com/rl1809/cims/internal/port"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	log.Printf("connected to %s", store.Dialect().Name)

	var events port.EventPublisher = port.NopPublisher{}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		events = storage.NewRedisPublisher(rdb)
		log.Println("publishing change events to redis")
	}

	services := app.NewServices(store, events)

	// Initialize gRPC health server
	grpcServer, healthServer := handler.NewGRPCServer()
	go handler.WatchStore(ctx, healthServer, store.DB(), cfg.HealthInterval)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("gRPC server error: %v", err)
		}
	}()

	// Initialize HTTP server
	gin.SetMode(gin.ReleaseMode)
	httpHandler := handler.NewHTTPHandler(services)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpHandler.Routes(),
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	healthServer.Shutdown()
	grpcServer.GracefulStop()
	log.Println("gRPC server stopped")

	cancel()
	if rdb != nil {
		rdb.Close()
	}
	store.Close()
	log.Println("connections closed")
}

func openStore(ctx context.Context, cfg config.Config) (*storage.Store, error) {
	if cfg.DBDriver == config.DriverSQLite {
		return storage.OpenSQLite(ctx, cfg.SQLitePath)
	}

	store, err := storage.OpenMySQL(ctx, cfg.MySQLDSN, storage.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	if cfg.MigrateOnStart {
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		log.Println("schema up to date")
	}
	return store, nil
}
