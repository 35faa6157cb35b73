package scoring

import "strings"

// BadgeStyle describes how a title is presented.
type BadgeStyle struct {
	Background string // CSS background
	Border     string // CSS border color
	Text       string // CSS text color
	Tooltip    string
}

func gradient(stops ...string) string {
	return "linear-gradient(to right, " + strings.Join(stops, ", ") + ")"
}

func maxiStyle(symbol string, background, border string) BadgeStyle {
	return BadgeStyle{
		Background: background,
		Border:     border,
		Text:       "#ffffff",
		Tooltip:    "💎 True believer - Only holds " + symbol + " tokens",
	}
}

// exactBadgeStyles are matched on the full title.
var exactBadgeStyles = map[string]BadgeStyle{
	TitleFadoor: {
		Background: gradient("#6b7280", "#ef4444"),
		Border:     "#fca5a5",
		Text:       "#ffffff",
		Tooltip:    "Midcurve fading retardio",
	},
	"RETARDIO MAXI": maxiStyle("RETARDIO", gradient("#9333ea", "#db2777"), "#f9a8d4"),
	"XD MAXI":       maxiStyle("XD", gradient("#db2777", "#e11d48"), "#f9a8d4"),
	"GLORP MAXI":    maxiStyle("GLORP", gradient("#22c55e", "#059669"), "#86efac"),
	"AUTISM MAXI":   maxiStyle("AUTISM", gradient("#ef4444", "#eab308", "#3b82f6"), "#fde047"),
	"MLG MAXI":      maxiStyle("MLG", gradient("#2563eb", "#ef4444", "#ffffff"), "#93c5fd"),
	"RAPR MAXI":     maxiStyle("RAPR", gradient("#2563eb", "#0891b2"), "#93c5fd"),
	"YAKUB MAXI":    maxiStyle("YAKUB", gradient("#eab308", "#d97706"), "#fde047"),
	"FLOYDAI MAXI":  maxiStyle("FLOYDAI", gradient("#111827", "#7f1d1d"), "#fca5a5"),
	"UWU MAXI":      maxiStyle("UWU", gradient("#ec4899", "#a855f7", "#6366f1"), "#d8b4fe"),
	"BPD MAXI":      maxiStyle("BPD", gradient("#4b5563", "#334155"), "#d1d5db"),
}

// patternBadgeStyles are matched by substring, in order, when no exact style exists.
var patternBadgeStyles = []struct {
	substr string
	style  BadgeStyle
}{
	{"Whale", BadgeStyle{
		Background: gradient("#60a5fa", "#06b6d4"),
		Border:     "#93c5fd",
		Text:       "#ffffff",
		Tooltip:    "🐋 WHALE - 500k+ points. Retar Dio.",
	}},
	{"Dolphin", BadgeStyle{
		Background: gradient("#22d3ee", "#14b8a6"),
		Border:     "#67e8f9",
		Text:       "#ffffff",
		Tooltip:    "🐬 DOLPHIN - 50k-500k points. Study autism.",
	}},
	{"Supreme Autist", withTooltip("🧩 SUPREME AUTIST - 50+ Retardio Cousins. Maximum autism achieved.")},
	{"Mitch Fanboy", withTooltip("🔮 Mitch Fanboy - 10+ Retardio Cousins. Main Character enjoyer")},
	{"Based Department", withTooltip("📞 BASED DEPARTMENT - 5+ Retardio Cousins. They're calling, it's for you anon.")},
	{"Schizo", withTooltip("👁️ SCHIZO APPRENTICE - First Retardio Cousin acquired. The voices were right about this one.")},
}

var defaultBadgeStyle = BadgeStyle{
	Background: gradient("#e5e7eb", "#d1d5db"),
	Border:     "#9ca3af",
	Text:       "#1f2937",
	Tooltip:    "Unknown Title",
}

func withTooltip(tooltip string) BadgeStyle {
	s := defaultBadgeStyle
	s.Tooltip = tooltip
	return s
}

// StyleFor returns the presentation style for a title produced by the engine.
func StyleFor(title string) BadgeStyle {
	if s, ok := exactBadgeStyles[title]; ok {
		return s
	}
	for _, p := range patternBadgeStyles {
		if strings.Contains(title, p.substr) {
			return p.style
		}
	}
	return defaultBadgeStyle
}
