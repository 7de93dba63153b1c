package chat

// defaultIcon is used for categories without a dedicated icon.
const defaultIcon = "📘"

// categoryIcons maps knowledge categories to their display icons.
var categoryIcons = map[string]string{
	"Diseases":      "🦠",
	"Pests":         "🐛",
	"Weeds":         "🌿",
	"Latex Quality": "🧪",
	"Cultivation":   "🌱",
	"Climate":       "🌤️",
	"Economics":     "💰",
	"Processing":    "🏭",
	"General":       "📘",
}

func icon(category string) string {
	if ic, ok := categoryIcons[category]; ok {
		return ic
	}
	return defaultIcon
}
