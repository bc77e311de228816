package handler

import (
	"TripGenie-App/internal/domain/model"
	"TripGenie-App/internal/usecase"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TripHandler は旅行計画セッションAPIのハンドラー
type TripHandler struct {
	tripUseCase usecase.TripPlannerUseCase
}

// NewTripHandler は新しいTripHandlerインスタンスを作成
func NewTripHandler(tripUseCase usecase.TripPlannerUseCase) *TripHandler {
	return &TripHandler{
		tripUseCase: tripUseCase,
	}
}

// MutationRequest は変更指示のリクエスト
type MutationRequest struct {
	Instruction string `json:"instruction"`
}

// GetOptions はフォームの選択肢を返す
// GET /api/options
func (h *TripHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"languages":     model.SupportedLanguages(),
		"travel_styles": model.TravelStyles,
	})
}

// PostTrip は旅行条件を受け取りセッションを開始する
// POST /trips
func (h *TripHandler) PostTrip(c *gin.Context) {
	var req model.UserPreferences

	// リクエストボディのバインド
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	// バリデーション
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	status, err := h.tripUseCase.StartTrip(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, status)
}

// GetTrip はセッションの状態を返す
// GET /trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	status, err := h.tripUseCase.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// DeleteTrip はセッションを破棄する
// DELETE /trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	if err := h.tripUseCase.EndTrip(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PostContinue は生成待ち画面からダッシュボードへ進む
// POST /trips/:id/continue
func (h *TripHandler) PostContinue(c *gin.Context) {
	status, err := h.tripUseCase.Continue(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetPlan は現在のプランとリビジョンを返す
// GET /trips/:id/plan
func (h *TripHandler) GetPlan(c *gin.Context) {
	snapshot, err := h.tripUseCase.CurrentPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// PostMutation は変更指示を送信する
// POST /trips/:id/mutations
func (h *TripHandler) PostMutation(c *gin.Context) {
	var req MutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if strings.TrimSpace(req.Instruction) == "" {
		respondError(c, &ValidationError{Field: "instruction", Message: "変更指示は必須です"})
		return
	}

	snapshot, err := h.tripUseCase.Mutate(c.Request.Context(), c.Param("id"), req.Instruction)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
