package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "mint-portal-backend/docs"
	"mint-portal-backend/internal/common/cache"
	"mint-portal-backend/internal/common/config"
	"mint-portal-backend/internal/common/logger"
	"mint-portal-backend/internal/common/metrics"
	"mint-portal-backend/internal/common/middleware"
	airdropclient "mint-portal-backend/internal/features/airdrop/client"
	airdrophttp "mint-portal-backend/internal/features/airdrop/delivery/http"
	mintclient "mint-portal-backend/internal/features/mint/client"
	minthttp "mint-portal-backend/internal/features/mint/delivery/http"
	mintredis "mint-portal-backend/internal/features/mint/repository/redis"
	mintservice "mint-portal-backend/internal/features/mint/service"
	wallethttp "mint-portal-backend/internal/features/wallet/delivery/http"
	walletredis "mint-portal-backend/internal/features/wallet/repository/redis"
	walletservice "mint-portal-backend/internal/features/wallet/service"
	"mint-portal-backend/internal/features/wallet/signer"
	"mint-portal-backend/internal/platform/ipfs"
	"mint-portal-backend/internal/platform/mirror"
	redisplatform "mint-portal-backend/internal/platform/redis"
	"mint-portal-backend/internal/workers"
)

// @title           Mint Portal API
// @version         1.0
// @description     Wallet session and payment-verified mint gateway for tiered NFTs.

// @host      localhost:8080
// @BasePath  /api/v1

// @tag.name wallet
// @tag.description Wallet session lifecycle - pairing, restore, disconnect, balance

// @tag.name mint
// @tag.description Payment-verified minting and supply data

// @tag.name airdrop
// @tag.description Airdrop claims for eligible accounts

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.Init("mint-portal-backend", cfg.Debug)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	rdb, err := redisplatform.Open(ctx, redisplatform.Addr(cfg.Redis.Host, cfg.Redis.Port), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Redis open failed")
	}
	defer rdb.Close()

	// Platform clients
	mirrorClient := mirror.NewClient(cfg.Ledger.MirrorNodeURL)
	ipfsClient := ipfs.NewClient(cfg.IPFS.GatewayURL, cfg.IPFS.MetadataCID)
	mintAPI := mintclient.NewClient(cfg.Mint.APIBaseURL)
	airdropAPI := airdropclient.NewClient(cfg.Mint.APIBaseURL)
	cacheService := cache.NewService(rdb)
	registry := metrics.NewRegistry()

	// Wallet connector
	agent := signer.NewRelayAgent(cfg.Relay.BridgeURL)
	sessionStore := walletredis.NewRepository(rdb.Client)
	wallet := walletservice.NewService(agent, sessionStore, mirrorClient, signer.AgentConfig{
		ProjectID:   cfg.Relay.ProjectID,
		Name:        cfg.Relay.AppName,
		Description: cfg.Relay.AppDescription,
		URL:         cfg.Relay.AppURL,
		Icons:       cfg.Relay.AppIcons,
		Network:     cfg.Ledger.Network,
	})
	if err := wallet.Initialize(ctx); err != nil {
		// Reported, not fatal: the relay may come up later and the UI can
		// retry connecting.
		logger.Warn().Err(err).Msg("Wallet connector initialization failed")
	} else {
		wallet.Bootstrap(ctx)
	}

	// Mint orchestration
	pendingStore := mintredis.NewRepository(rdb.Client)
	orchestrator := mintservice.NewOrchestrator(
		wallet,
		mintAPI,
		ipfsClient,
		mintservice.NewPaymentSubmitter(),
		pendingStore,
		pendingStore,
		registry,
		cfg.Mint.TreasuryAccountID,
		cfg.Mint.TokenID,
		cfg.Mint.MaxPerTransaction,
	)

	reconciler := workers.NewReconciler(rdb, orchestrator, registry)
	go reconciler.Start(ctx)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api/v1")
	wallethttp.NewWalletHandler(wallet).RegisterRoutes(api)
	minthttp.NewMintHandler(orchestrator, wallet, mirrorClient, cacheService, cfg.Mint.TokenID).RegisterRoutes(api)
	airdrophttp.NewAirdropHandler(airdropAPI, wallet).RegisterRoutes(api)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(registry.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Listen failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
	logger.Info().Msg("Server stopped")
}
