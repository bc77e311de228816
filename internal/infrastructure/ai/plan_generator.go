package ai

import (
	"TripGenie-App/internal/domain/helper"
	"TripGenie-App/internal/domain/model"
	"TripGenie-App/internal/domain/repository"
	"TripGenie-App/internal/domain/service"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

const (
	OperationGenerate     = "generate"
	OperationModify       = "modify"
	OperationStandardTour = "standard_tour"

	generateTemperature     float32 = 0.4
	modifyTemperature       float32 = 0.5
	standardTourTemperature float32 = 0.3
)

// JSONGenerator はスキーマ付きでJSONを生成する機能（GeminiClientが実装）
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, temperature float32) (string, error)
}

// geminiPlanRepository はGemini APIを使用してPlanGenerationRepositoryを実装
type geminiPlanRepository struct {
	generator JSONGenerator
	schema    *genai.Schema
}

// NewGeminiPlanRepository は新しいgeminiPlanRepositoryインスタンスを作成
func NewGeminiPlanRepository(generator JSONGenerator) repository.PlanGenerationRepository {
	return &geminiPlanRepository{
		generator: generator,
		schema:    tripSchema(),
	}
}

// GeneratePlan は旅行条件から初回の旅程を生成する
func (g *geminiPlanRepository) GeneratePlan(ctx context.Context, prefs *model.UserPreferences) (*model.TripPlan, error) {
	if err := prefs.Validate(); err != nil {
		return nil, &model.GenerationFailure{Operation: OperationGenerate, Reason: "旅行条件が不正です", Err: err}
	}

	log.Printf("🤖 Gemini APIで旅程を生成中... (目的地: %s, 期間: %s, 言語: %s)", prefs.Destination, prefs.Duration, prefs.Language)

	plan, err := g.generate(ctx, OperationGenerate, g.buildGeneratePrompt(prefs), generateTemperature)
	if err != nil {
		return nil, err
	}

	// 期間が "5 Days" のような日数指定だけの場合のみ日数を検証する
	if days, ok := helper.ParseDayCount(prefs.Duration); ok {
		if err := service.ValidateDayCount(plan, days); err != nil {
			log.Printf("❌ 日数が一致しません: %v", err)
			return nil, &model.GenerationFailure{Operation: OperationGenerate, Reason: "スキーマ不一致", Err: err}
		}
	}

	plan.Language = prefs.Language
	log.Printf("✅ 旅程生成完了: %d日間 / %d件のアクティビティ", len(plan.Days), plan.ActivityCount())
	return plan, nil
}

// ModifyPlan は現在の旅程と指示から更新後の旅程全体を生成する
func (g *geminiPlanRepository) ModifyPlan(ctx context.Context, plan *model.TripPlan, instruction string) (*model.TripPlan, error) {
	if strings.TrimSpace(instruction) == "" {
		return nil, model.ErrEmptyInstruction
	}
	if plan == nil {
		return nil, model.ErrPlanNotReady
	}

	current, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("現在のプランのシリアライズに失敗: %w", err)
	}

	log.Printf("🤖 Gemini APIで旅程を更新中... (指示: %q)", instruction)

	updated, err := g.generate(ctx, OperationModify, g.buildModifyPrompt(string(current), instruction), modifyTemperature)
	if err != nil {
		return nil, err
	}

	updated.Language = plan.Language
	log.Printf("✅ 旅程更新完了: %d日間 / %d件のアクティビティ", len(updated.Days), updated.ActivityCount())
	return updated, nil
}

// GenerateStandardTour は比較用の一般的な団体ツアー旅程を生成する
func (g *geminiPlanRepository) GenerateStandardTour(ctx context.Context, prefs *model.UserPreferences) (*model.TripPlan, error) {
	if err := prefs.Validate(); err != nil {
		return nil, &model.GenerationFailure{Operation: OperationStandardTour, Reason: "旅行条件が不正です", Err: err}
	}

	log.Printf("🤖 Gemini APIで比較用ツアーを生成中... (目的地: %s)", prefs.Destination)

	plan, err := g.generate(ctx, OperationStandardTour, g.buildStandardTourPrompt(prefs), standardTourTemperature)
	if err != nil {
		return nil, err
	}

	plan.Language = prefs.Language
	log.Printf("✅ 比較用ツアー生成完了: %d日間", len(plan.Days))
	return plan, nil
}

// generate は生成サービスを呼び出し、レスポンスをデコード・検証する
func (g *geminiPlanRepository) generate(ctx context.Context, operation, prompt string, temperature float32) (*model.TripPlan, error) {
	text, err := g.generator.GenerateJSON(ctx, prompt, g.schema, temperature)
	if err != nil {
		log.Printf("❌ Gemini API呼び出しエラー (%s): %v", operation, err)
		return nil, &model.GenerationFailure{Operation: operation, Reason: "通信エラー", Err: err}
	}

	plan, err := DecodePlan(text)
	if err != nil {
		log.Printf("❌ レスポンスのデコードに失敗 (%s): %v", operation, err)
		return nil, &model.GenerationFailure{Operation: operation, Reason: "スキーマ不一致", Err: err}
	}
	return plan, nil
}

// DecodePlan は生成サービスのレスポンス文字列をTripPlanに変換する
// 必須キーの欠落・型の不一致・不変条件違反はすべてエラーとなる
func DecodePlan(text string) (*model.TripPlan, error) {
	body := stripCodeFence(text)
	if body == "" {
		return nil, fmt.Errorf("レスポンスが空です")
	}

	if err := checkRequiredKeys(body); err != nil {
		return nil, err
	}

	var plan model.TripPlan
	if err := json.Unmarshal([]byte(body), &plan); err != nil {
		return nil, fmt.Errorf("レスポンスのパースに失敗: %w", err)
	}

	if err := service.ValidatePlan(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// checkRequiredKeys はスキーマの必須キーが全て存在するか確認する
func checkRequiredKeys(body string) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &top); err != nil {
		return fmt.Errorf("レスポンスのパースに失敗: %w", err)
	}
	if missing := missingKeys(top, requiredPlanKeys); len(missing) > 0 {
		return fmt.Errorf("必須キーがありません: %s", strings.Join(missing, ", "))
	}

	var days []map[string]json.RawMessage
	if err := json.Unmarshal(top["days"], &days); err != nil {
		return fmt.Errorf("days のパースに失敗: %w", err)
	}
	for i, day := range days {
		if missing := missingKeys(day, requiredDayKeys); len(missing) > 0 {
			return fmt.Errorf("days[%d]: 必須キーがありません: %s", i, strings.Join(missing, ", "))
		}

		var activities []map[string]json.RawMessage
		if err := json.Unmarshal(day["activities"], &activities); err != nil {
			return fmt.Errorf("days[%d].activities のパースに失敗: %w", i, err)
		}
		for j, act := range activities {
			if missing := missingKeys(act, requiredActivityKeys); len(missing) > 0 {
				return fmt.Errorf("days[%d].activities[%d]: 必須キーがありません: %s", i, j, strings.Join(missing, ", "))
			}
		}
	}
	return nil
}

func missingKeys(obj map[string]json.RawMessage, keys []string) []string {
	var missing []string
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok || string(raw) == "null" {
			missing = append(missing, key)
		}
	}
	return missing
}

// stripCodeFence は ```json ... ``` で囲まれた応答から中身を取り出す
func stripCodeFence(text string) string {
	body := strings.TrimSpace(text)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimPrefix(body, "```")
	if i := strings.Index(body, "\n"); i >= 0 {
		body = body[i+1:]
	} else {
		body = strings.TrimPrefix(body, "json")
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}

// buildGeneratePrompt は初回生成用のプロンプトを構築
func (g *geminiPlanRepository) buildGeneratePrompt(prefs *model.UserPreferences) string {
	orDefault := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}

	return fmt.Sprintf(`Act as an expert local travel planner.

User Request:
- Destination: %s
- Depart From: %s
- Duration/Dates: %s
- Layover/Stopover: %s
- Hotel: %s
- Travel Style: %s
- Constraints: %s
- Language: %s

Generate a detailed day-by-day itinerary.

CRITICAL INSTRUCTIONS:
1. LANGUAGE: ALL output fields (summary, activity names, descriptions, warnings, tips) MUST be written in %s. Do not output English unless the language is English.
2. If "Layover" is specified, incorporate it into the travel plan appropriately.
3. If the user provided a duration but NOT specific dates, suggest the BEST time of year to visit in "suggested_dates" and explain why in "date_reasoning".
4. If the user did NOT specify a hotel, provide 3 good recommendations in "suggested_hotels".
5. Provide a "estimated_budget" for the trip (excluding flights) in the local currency or USD.
6. You must provide valid Latitude and Longitude for every activity.
7. Number the days consecutively starting from 1 in "day_number".`,
		prefs.Destination,
		orDefault(prefs.DepartFrom, "Not specified"),
		prefs.Duration,
		orDefault(prefs.Layover, "None"),
		orDefault(prefs.Hotel, "Not specified"),
		prefs.StyleLabel(),
		orDefault(prefs.Constraints, "None"),
		prefs.Language,
		prefs.Language,
	)
}

// buildModifyPrompt は更新用のプロンプトを構築
func (g *geminiPlanRepository) buildModifyPrompt(currentJSON, instruction string) string {
	return fmt.Sprintf(`You are an expert travel planner.
Current Plan (JSON): %s

User Instruction for Modification: %q

Update the plan according to the user's request.
Maintain the JSON structure exactly and return the complete plan.
IMPORTANT: Ensure the output language matches the original plan's language.
If the user asks to change a specific day, only modify that day and keep others largely the same unless flow requires changes.
Ensure coordinates are accurate for any new places.`, currentJSON, instruction)
}

// buildStandardTourPrompt は比較用ツアーのプロンプトを構築
func (g *geminiPlanRepository) buildStandardTourPrompt(prefs *model.UserPreferences) string {
	return fmt.Sprintf(`Act as a traditional travel agency.
Create a "Standard Group Tour" itinerary for %s for %s.
This should be the typical "Tourist Trap" itinerary.
Language: %s (ALL text must be in this language).`, prefs.Destination, prefs.Duration, prefs.Language)
}
