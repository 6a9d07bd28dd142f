package models

// Language selects the display language for metadata labels
type Language string

const (
	LanguageJA Language = "ja"
	LanguageEN Language = "en"
)

// LayerInfo holds display metadata for a layer
type LayerInfo struct {
	Label map[Language]string `json:"label"`
	Icon  string              `json:"icon"`
	Color string              `json:"color"`
}

// CategoryInfo holds display metadata for a category
type CategoryInfo struct {
	Label map[Language]string `json:"label"`
	Icon  string              `json:"icon"`
}

// LayerMetadata maps each layer to its display metadata.
// Clients render rankings from this table instead of carrying their own
// string tables.
var LayerMetadata = map[Layer]LayerInfo{
	LayerDeadline: {
		Label: map[Language]string{LanguageJA: "外部締切 (MUST)", LanguageEN: "Deadline (MUST)"},
		Icon:  "🚨",
		Color: "#EF4444",
	},
	LayerInvestment: {
		Label: map[Language]string{LanguageJA: "自己投資 (SHOULD)", LanguageEN: "Investment (SHOULD)"},
		Icon:  "📈",
		Color: "#3B82F6",
	},
	LayerDesire: {
		Label: map[Language]string{LanguageJA: "本音・願望 (WANT)", LanguageEN: "Desire (WANT)"},
		Icon:  "🌟",
		Color: "#10B981",
	},
}

// CategoryMetadata maps each category to its display metadata
var CategoryMetadata = map[Category]CategoryInfo{
	CategoryWork:    {Label: map[Language]string{LanguageJA: "仕事", LanguageEN: "Work"}, Icon: "💼"},
	CategoryStudy:   {Label: map[Language]string{LanguageJA: "学習", LanguageEN: "Study"}, Icon: "📚"},
	CategoryPrivate: {Label: map[Language]string{LanguageJA: "プライベート", LanguageEN: "Private"}, Icon: "🏠"},
	CategoryOther:   {Label: map[Language]string{LanguageJA: "その他", LanguageEN: "Other"}, Icon: "📌"},
}

// LayerLabel returns the display label for a layer in the given language,
// falling back to English for unknown languages.
func LayerLabel(layer Layer, lang Language) string {
	info, ok := LayerMetadata[layer]
	if !ok {
		return string(layer)
	}
	if label, ok := info.Label[lang]; ok {
		return label
	}
	return info.Label[LanguageEN]
}

// CategoryLabel returns the display label for a category in the given language,
// falling back to English for unknown languages.
func CategoryLabel(category Category, lang Language) string {
	info, ok := CategoryMetadata[category]
	if !ok {
		return string(category)
	}
	if label, ok := info.Label[lang]; ok {
		return label
	}
	return info.Label[LanguageEN]
}
