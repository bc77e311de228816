package model

import (
	"fmt"
	"strings"
)

// Language は出力言語
type Language string

const (
	LanguageEnglish    Language = "English"
	LanguageChinese    Language = "中文"
	LanguageJapanese   Language = "日本語"
	LanguageHindi      Language = "Hindi"
	LanguageSpanish    Language = "Spanish"
	LanguageArabic     Language = "Arabic"
	LanguageFrench     Language = "French"
	LanguagePortuguese Language = "Portuguese"
	LanguageRussian    Language = "Russian"
	LanguageIndonesian Language = "Indonesian"
	LanguageKorean     Language = "Korean"
	LanguageThai       Language = "Thai"
)

// SupportedLanguages はUI・出力でサポートする言語一覧
func SupportedLanguages() []Language {
	return []Language{
		LanguageEnglish,
		LanguageChinese,
		LanguageJapanese,
		LanguageHindi,
		LanguageSpanish,
		LanguageArabic,
		LanguageFrench,
		LanguagePortuguese,
		LanguageRussian,
		LanguageIndonesian,
		LanguageKorean,
		LanguageThai,
	}
}

// Valid はサポート対象の言語かどうかを判定する
func (l Language) Valid() bool {
	for _, lang := range SupportedLanguages() {
		if lang == l {
			return true
		}
	}
	return false
}

// UserPreferences はフォームから送信される旅行条件。送信後は読み取り専用
// 入力チェックは Validate に集約する
type UserPreferences struct {
	Destination string   `json:"destination"`
	DepartFrom  string   `json:"depart_from,omitempty"`
	Duration    string   `json:"duration"` // "5 Days" や "Oct 10 - Oct 15" など自由記述
	Layover     string   `json:"layover,omitempty"`
	Hotel       string   `json:"hotel,omitempty"`
	Style       []string `json:"style,omitempty"`
	Constraints string   `json:"constraints,omitempty"`
	Language    Language `json:"language"`
}

// Validate は必須項目・言語・旅行スタイルをチェックする
// 不正な項目があれば *PreferenceError を返す
func (p *UserPreferences) Validate() error {
	if p == nil {
		return &PreferenceError{Message: "旅行条件が指定されていません"}
	}
	if strings.TrimSpace(p.Destination) == "" {
		return &PreferenceError{Field: "destination", Message: "目的地は必須です"}
	}
	if strings.TrimSpace(p.Duration) == "" {
		return &PreferenceError{Field: "duration", Message: "期間は必須です"}
	}
	if !p.Language.Valid() {
		return &PreferenceError{Field: "language", Message: fmt.Sprintf("サポートされていない言語です: %q", p.Language)}
	}
	for _, style := range p.Style {
		if strings.TrimSpace(style) == "" {
			return &PreferenceError{Field: "style", Message: "空の旅行スタイルは指定できません"}
		}
	}
	return nil
}

// StyleLabel はプロンプト用の旅行スタイル表記（未指定は"Balanced"）
func (p *UserPreferences) StyleLabel() string {
	if len(p.Style) == 0 {
		return "Balanced"
	}
	return strings.Join(p.Style, ", ")
}

// Clone は読み取り専用として扱うためのコピーを返す
func (p *UserPreferences) Clone() *UserPreferences {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Style = cloneSlice(p.Style)
	return &cp
}
