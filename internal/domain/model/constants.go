package model

// TravelStyles はフォームで選択できる旅行スタイルのタグ一覧
var TravelStyles = []string{
	"Foodie",
	"Instagrammable",
	"Nature",
	"Shopping",
	"Low Budget",
	"Couple",
	"Luxury",
	"History",
	"Relaxing",
	"Adventure",
	"Cultural",
	"Nightlife",
	"Solo",
	"Family Friendly",
	"Romantic",
	"Backpacking",
	"Art & Design",
	"Beach Lover",
	"Road Trip",
	"Hiking",
	"Wildlife",
	"Eco Travel",
	"Wellness & Spa",
	"Festival & Events",
	"Photography",
	"Urban Explorer",
	"Snow & Ski",
	"Cruise",
	"Local Experiences",
	"Food & Wine",
	"Off-the-Beaten-Path",
	"Pilgrimage / Spiritual",
	"Theme Parks",
	"Island Hopping",
	"Sports & Activities",
	"Workcation / Remote Work",
	"Short Weekend Trip",
	"Bucket List Travel",
}

// DefaultFlightDelayBackup はプランにフライト遅延時の代替案が無い場合の表示文
const DefaultFlightDelayBackup = "If your flight is delayed, head to the airport lounge (2F) or book a pod at the Capsule Hotel in Terminal 1. Relax, your trip is still on!"

// DefaultSuggestedDates は日程の提案が無い場合の表示
const DefaultSuggestedDates = "Flexible"
