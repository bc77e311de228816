package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMutationInFlight は更新処理中に次の指示が送信された場合のエラー（キューイングはしない）
	ErrMutationInFlight = errors.New("プランを更新中です。完了までお待ちください")
	// ErrEmptyInstruction は空の変更指示
	ErrEmptyInstruction = errors.New("変更指示が空です")
	// ErrSessionNotFound はセッションが存在しない（または期限切れ）
	ErrSessionNotFound = errors.New("セッションが見つかりません")
	// ErrSessionClosed は破棄済みセッションへの操作。遅れて届いた応答はこれで破棄される
	ErrSessionClosed = errors.New("セッションは終了しています")
	// ErrPlanNotReady はプランがまだ生成されていない
	ErrPlanNotReady = errors.New("プランがまだ準備できていません")
	// ErrActivityNotFound は指定された日・番号のアクティビティが存在しない
	ErrActivityNotFound = errors.New("アクティビティが見つかりません")
)

// PreferenceError は旅行条件の項目ごとの入力エラー
type PreferenceError struct {
	Field   string
	Message string
}

func (e *PreferenceError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ConfigurationError は必須の設定値が欠けている場合のエラー。リトライしない
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("設定エラー: 環境変数 %s が設定されていません", e.Key)
}

// GenerationFailure は生成サービス呼び出しの失敗（通信エラー・非2xx・スキーマ不一致）
// 呼び出し側は直前のドキュメントを保持したまま通知し、ユーザーが再試行できる
type GenerationFailure struct {
	Operation string // "generate" / "modify" / "standard_tour"
	Reason    string
	Err       error
}

func (e *GenerationFailure) Error() string {
	msg := fmt.Sprintf("プラン生成に失敗 (%s)", e.Operation)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationFailure) Unwrap() error {
	return e.Err
}

// ValidationFailure はパース済みドキュメントが不変条件を満たさない場合のエラー
type ValidationFailure struct {
	Problems []string
}

func (e *ValidationFailure) Error() string {
	return "プランの検証に失敗: " + strings.Join(e.Problems, "; ")
}

// IsGenerationFailure は生成失敗として扱うべきエラーかどうか（検証失敗も含む）
func IsGenerationFailure(err error) bool {
	var gf *GenerationFailure
	var vf *ValidationFailure
	return errors.As(err, &gf) || errors.As(err, &vf)
}

// IsConfigurationError は設定エラーかどうか
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
