package handler

import (
	"TripGenie-App/internal/domain/gate"
	"TripGenie-App/internal/domain/model"
	"TripGenie-App/internal/usecase"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// statusFor はユースケースのエラーをHTTPステータスとエラーメッセージに変換する
func statusFor(err error) (int, string) {
	var ve *ValidationError
	var pe *model.PreferenceError
	var vf *model.ValidationFailure
	switch {
	case errors.As(err, &ve), errors.As(err, &pe):
		return http.StatusBadRequest, "バリデーションエラー"
	case errors.Is(err, model.ErrEmptyInstruction), errors.Is(err, usecase.ErrUnsupportedFeature):
		return http.StatusBadRequest, "バリデーションエラー"
	case errors.Is(err, model.ErrSessionNotFound), errors.Is(err, model.ErrSessionClosed):
		return http.StatusNotFound, "セッションが見つかりません"
	case errors.Is(err, usecase.ErrGateNotFound):
		return http.StatusNotFound, "ゲートが見つかりません"
	case errors.Is(err, model.ErrActivityNotFound):
		return http.StatusNotFound, "アクティビティが見つかりません"
	case errors.Is(err, usecase.ErrTooManyGates):
		return http.StatusTooManyRequests, "ゲートの開始回数が多すぎます"
	case errors.Is(err, model.ErrMutationInFlight):
		return http.StatusConflict, "プランを更新中です"
	case errors.Is(err, gate.ErrLocked), errors.Is(err, gate.ErrAlreadyClaimed),
		errors.Is(err, gate.ErrNotUnlocking), errors.Is(err, gate.ErrAlreadyStarted), errors.Is(err, gate.ErrClosed):
		return http.StatusConflict, "ゲートの状態が不正です"
	case errors.Is(err, model.ErrPlanNotReady):
		return http.StatusConflict, "プランがまだ準備できていません"
	case model.IsConfigurationError(err):
		return http.StatusServiceUnavailable, "サーバーの設定に問題があります"
	case model.IsGenerationFailure(err), errors.As(err, &vf):
		return http.StatusBadGateway, "プランの生成に失敗しました"
	}
	return http.StatusInternalServerError, "内部エラーが発生しました"
}

// respondError はエラーを {"error": ..., "details": ...} 形式で返す
func respondError(c *gin.Context, err error) {
	status, message := statusFor(err)
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

// badRequest はリクエスト形式のエラーを返す
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "リクエストの形式が正しくありません",
		"details": err.Error(),
	})
}
