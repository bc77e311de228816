package handler

import (
	"TripGenie-App/internal/usecase"
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	planWSWriteWait = 10 * time.Second
	planWSPongWait  = 60 * time.Second
	planWSPingEvery = (planWSPongWait * 9) / 10
)

// EventHandler はプラン更新イベントのWebSocket配信ハンドラー
type EventHandler struct {
	tripUseCase usecase.TripPlannerUseCase
	upgrader    websocket.Upgrader
}

// NewEventHandler は新しいEventHandlerインスタンスを作成
// allowedOrigins はCORSと同じ許可リスト。空の場合は同一オリジンのみ許可する
func NewEventHandler(tripUseCase usecase.TripPlannerUseCase, allowedOrigins []string) *EventHandler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(allowedOrigins) > 0 {
		upgrader.CheckOrigin = originAllowed(allowedOrigins)
	}
	return &EventHandler{
		tripUseCase: tripUseCase,
		upgrader:    upgrader,
	}
}

// originAllowed はOriginヘッダーが許可リストに含まれるかを判定する
// Originを送らないブラウザ以外のクライアントは許可する
func originAllowed(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range allowedOrigins {
			if allowed == "*" || strings.EqualFold(allowed, origin) {
				return true
			}
		}
		log.Printf("⚠️ 許可されていないOriginからのWebSocket接続を拒否: %s", origin)
		return false
	}
}

// GetEvents はセッションのイベントをWebSocketで配信する
// イベントには本体を含めないので、受信側は plan_replaced を受けて各ビューを再取得する
// GET /trips/:id/ws
func (h *EventHandler) GetEvents(c *gin.Context) {
	sessionID := c.Param("id")
	events, unsubscribe, err := h.tripUseCase.Subscribe(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocketのアップグレードに失敗 (session: %s): %v", sessionID, err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(planWSPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(planWSPongWait))
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writePlanEvents(ctx, conn, events)
		// 書き込み終了後は受信ループも止める
		cancel()
		conn.Close()
	}()

	// 受信は切断検知のためだけに行う
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			cancel()
			<-writerDone
			return
		}
	}
}

func writePlanEvents(ctx context.Context, conn *websocket.Conn, events <-chan usecase.PlanEvent) {
	ticker := time.NewTicker(planWSPingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if err := conn.SetWriteDeadline(time.Now().Add(planWSWriteWait)); err != nil {
				return
			}
			if !ok {
				// セッション終了。購読チャネルが閉じられた
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(planWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
