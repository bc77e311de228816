package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"TripGenie-App/internal/config"
	"TripGenie-App/internal/domain/gate"
	"TripGenie-App/internal/handler"
	"TripGenie-App/internal/infrastructure/ai"
	"TripGenie-App/internal/repository"
	"TripGenie-App/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("⚠️  環境変数が設定されていません:")
		fmt.Println("必要な環境変数: GEMINI_API_KEY")
		fmt.Println("\n.envファイルを作成するか、環境変数を設定してください")
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	ctx := context.Background()

	fmt.Println("Initializing Gemini client...")
	geminiClient, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GenerationTimeout)
	if err != nil {
		log.Fatalf("Geminiクライアント初期化失敗: %v", err)
	}
	fmt.Printf("✅ Gemini client ready (model: %s)\n", geminiClient.Model())

	planRepo := ai.NewGeminiPlanRepository(geminiClient)
	sessionRepo := repository.NewMemorySessionRepository(cfg.MaxSessions, cfg.SessionTTL)
	tripUseCase := usecase.NewTripPlannerUseCase(planRepo, sessionRepo, gate.SystemClock(), usecase.GateDurations{
		Continuation: cfg.GateContinuation,
		Export:       cfg.GateExport,
		DetailUnlock: cfg.GateDetailUnlock,
	})

	router := handler.NewRouter(tripUseCase, handler.NewRateLimiter(cfg.RateLimitPerMinute), cfg.CORSAllowedOrigins)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition"},
	}).Handler(router)

	// 変更指示の応答は生成完了を待つ
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           corsHandler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.GenerationTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		fmt.Printf("TripGenie-App server starting on %s...\n", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ サーバーの起動に失敗: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 シャットダウンを開始します...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ シャットダウンに失敗: %v", err)
	}
	log.Println("✅ サーバーを停止しました")
}
