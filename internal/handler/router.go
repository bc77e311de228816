package handler

import (
	"TripGenie-App/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceName はヘルスチェックで返すサービス名
const ServiceName = "TripGenie-App"

// NewRouter はAPIのルーティングを設定したgin.Engineを作成する
// allowedOrigins はWebSocket接続のOrigin検証に使う
func NewRouter(tripUseCase usecase.TripPlannerUseCase, limiter *RateLimiter, allowedOrigins []string) *gin.Engine {
	tripHandler := NewTripHandler(tripUseCase)
	viewHandler := NewViewHandler(tripUseCase)
	gateHandler := NewGateHandler(tripUseCase)
	eventHandler := NewEventHandler(tripUseCase, allowedOrigins)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler)
		api.GET("/options", tripHandler.GetOptions)
	}

	// 生成を伴うエンドポイントとゲート開始を回数制限する
	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if limiter != nil {
		limit = limiter.Limit()
	}

	trips := r.Group("/trips")
	{
		trips.POST("", limit, tripHandler.PostTrip)
		trips.GET("/:id", tripHandler.GetTrip)
		trips.DELETE("/:id", tripHandler.DeleteTrip)
		trips.POST("/:id/continue", tripHandler.PostContinue)
		trips.GET("/:id/plan", tripHandler.GetPlan)
		trips.POST("/:id/mutations", limit, tripHandler.PostMutation)

		trips.GET("/:id/views/itinerary", viewHandler.GetItinerary)
		trips.GET("/:id/views/map", viewHandler.GetMap)
		trips.GET("/:id/views/detail", viewHandler.GetDetail)
		trips.POST("/:id/comparison", limit, viewHandler.PostComparison)

		trips.POST("/:id/gates", limit, gateHandler.PostGate)
		trips.GET("/:id/gates/:gate_id", gateHandler.GetGate)
		trips.POST("/:id/gates/:gate_id/complete", gateHandler.PostGateComplete)
		trips.POST("/:id/gates/:gate_id/claim", gateHandler.PostGateClaim)

		trips.GET("/:id/links/flights", gateHandler.GetFlightLink)
		trips.GET("/:id/ws", eventHandler.GetEvents)
	}

	return r
}

// GET /api/health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
	})
}
