package repository

import (
	"TripGenie-App/internal/domain/model"
	"context"
)

// PlanGenerationRepository は旅程ドキュメントの生成・更新の責務を持つリポジトリインターフェース
// いずれのメソッドもドキュメント全体を返し、部分的な差分は返さない
type PlanGenerationRepository interface {
	// GeneratePlan は旅行条件から初回の旅程を生成する
	GeneratePlan(ctx context.Context, prefs *model.UserPreferences) (*model.TripPlan, error)
	// ModifyPlan は現在の旅程と自然言語の指示から更新後の旅程を生成する。planは変更しない
	ModifyPlan(ctx context.Context, plan *model.TripPlan, instruction string) (*model.TripPlan, error)
	// GenerateStandardTour は比較用の一般的な団体ツアー旅程を生成する
	GenerateStandardTour(ctx context.Context, prefs *model.UserPreferences) (*model.TripPlan, error)
}
