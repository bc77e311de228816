package handler

import (
	"TripGenie-App/internal/domain/gate"
	"TripGenie-App/internal/domain/projection"
	"TripGenie-App/internal/usecase"
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

// QRCodeSize はフライト検索リンクのQRコード画像の一辺（px）
const QRCodeSize = 256

// GateHandler は広告ゲートとリンクAPIのハンドラー
type GateHandler struct {
	tripUseCase usecase.TripPlannerUseCase
	now         func() time.Time
}

// NewGateHandler は新しいGateHandlerインスタンスを作成
func NewGateHandler(tripUseCase usecase.TripPlannerUseCase) *GateHandler {
	return &GateHandler{
		tripUseCase: tripUseCase,
		now:         time.Now,
	}
}

// OpenGateRequest はゲート開始のリクエスト
type OpenGateRequest struct {
	Feature gate.Feature `json:"feature" binding:"required"`
}

// PostGate は機能ごとのゲートを開始する
// POST /trips/:id/gates
func (h *GateHandler) PostGate(c *gin.Context) {
	var req OpenGateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Feature != gate.FeatureExport && req.Feature != gate.FeatureDetailUnlock {
		respondError(c, &ValidationError{Field: "feature", Message: "featureは'export'または'detail_unlock'を指定してください"})
		return
	}

	snapshot, err := h.tripUseCase.OpenGate(c.Request.Context(), c.Param("id"), req.Feature)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

// GetGate はゲートの状態を返す
// GET /trips/:id/gates/:gate_id
func (h *GateHandler) GetGate(c *gin.Context) {
	snapshot, err := h.tripUseCase.GateStatus(c.Request.Context(), c.Param("id"), c.Param("gate_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// PostGateComplete は動画の再生終了を通知する
// POST /trips/:id/gates/:gate_id/complete
func (h *GateHandler) PostGateComplete(c *gin.Context) {
	snapshot, err := h.tripUseCase.CompleteGate(c.Request.Context(), c.Param("id"), c.Param("gate_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// PostGateClaim は解除済みゲートの報酬を受け取る
// エクスポートの場合は format=csv|pdf のファイルを返す
// POST /trips/:id/gates/:gate_id/claim
func (h *GateHandler) PostGateClaim(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "pdf" {
		respondError(c, &ValidationError{Field: "format", Message: "formatは'csv'または'pdf'を指定してください"})
		return
	}

	reward, err := h.tripUseCase.ClaimGate(c.Request.Context(), c.Param("id"), c.Param("gate_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if reward.Gate.Feature != gate.FeatureExport || reward.Plan == nil {
		c.JSON(http.StatusOK, reward)
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "pdf" {
		contentType = "application/pdf"
		err = projection.WritePDF(&buf, reward.Plan)
	} else {
		err = projection.WriteCSV(&buf, reward.Plan)
	}
	if err != nil {
		log.Printf("❌ エクスポートに失敗 (format: %s): %v", format, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "エクスポートに失敗しました",
			"details": err.Error(),
		})
		return
	}

	filename := projection.ExportFileName(h.now(), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// GetFlightLink はフライト検索リンクを返す。qr=1 の場合はQRコード画像を返す
// GET /trips/:id/links/flights
func (h *GateHandler) GetFlightLink(c *gin.Context) {
	link, err := h.tripUseCase.FlightLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if qr, _ := strconv.ParseBool(c.Query("qr")); !qr {
		c.JSON(http.StatusOK, link)
		return
	}

	png, err := qrcode.Encode(link.URL, qrcode.Medium, QRCodeSize)
	if err != nil {
		log.Printf("❌ QRコードの生成に失敗: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "QRコードの生成に失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
