package helper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"TripGenie-App/internal/domain/model"
)

// Link は外部サイトへのリンク
type Link struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

var (
	nonSlugChars     = regexp.MustCompile(`[^a-z0-9]+`)
	nonHashtagChars  = regexp.MustCompile(`[^a-zA-Z0-9]`)
	flightSearchBase = "https://www.skyscanner.com/transport/flights"
)

// SanitizeCity は "Kuala Lumpur, Malaysia" を "kuala-lumpur" に変換する
func SanitizeCity(input string) string {
	city := strings.TrimSpace(strings.Split(input, ",")[0])
	if city == "" {
		return "everywhere"
	}
	slug := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(city), "-"), "-")
	if slug == "" {
		return "everywhere"
	}
	return slug
}

// FlightSearchURL は出発地・目的地・期間からフライト検索URLを組み立てる
// 期間から日付が読み取れない場合は日付部分を付けない
func FlightSearchURL(prefs *model.UserPreferences, now time.Time) string {
	origin := SanitizeCity(prefs.DepartFrom)
	dest := SanitizeCity(prefs.Destination)

	u := fmt.Sprintf("%s/%s/%s", flightSearchBase, origin, dest)
	if dates, ok := ParseTravelDates(prefs.Duration, now); ok {
		u += fmt.Sprintf("/%s/%s", FormatYYMMDD(dates.Start), FormatYYMMDD(dates.End))
	}
	return u
}

// HotelBookingURL はホテル名の予約サイト検索URL
func HotelBookingURL(name string) string {
	return "https://www.booking.com/searchresults.html?ss=" + url.QueryEscape(name)
}

// PlaceLinks は詳細画面に表示する外部リンク一覧を返す
func PlaceLinks(activity model.Activity) []Link {
	query := url.QueryEscape(activity.PlaceName)
	links := make([]Link, 0, 5)

	switch activity.Type {
	case model.ActivityTypeSightseeing, model.ActivityTypeOther, model.ActivityTypeTransport:
		links = append(links, Link{
			Kind:  "booking",
			Label: "Book tickets & tours",
			URL:   "https://www.klook.com/search?query=" + query,
		})
	}

	// 英数字が残らない地名（非ラテン文字など）はハッシュタグを作れないので省略する
	if tag := nonHashtagChars.ReplaceAllString(activity.PlaceName, ""); tag != "" {
		links = append(links, Link{
			Kind:  "instagram",
			Label: "#" + tag,
			URL:   "https://www.instagram.com/explore/tags/" + tag + "/",
		})
	}

	links = append(links,
		Link{Kind: "tiktok", Label: "Watch on TikTok", URL: "https://www.tiktok.com/search?q=" + query},
		Link{Kind: "images", Label: "Google Images", URL: "https://www.google.com/search?tbm=isch&q=" + query},
		Link{Kind: "reviews", Label: "Read blogs & articles", URL: "https://www.google.com/search?q=" + query + "+reviews"},
	)
	return links
}
