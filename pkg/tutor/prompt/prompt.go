// Package prompt builds the tutoring system instruction and the generation
// parameters from difficulty, scenario and teaching-intensity settings.
package prompt

import (
	"fmt"
	"strings"
)

// Difficulty levels accepted by the composer. Unknown values fall back to
// beginner, matching the tutoring posture of "assume less, explain more".
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Intensity is the teaching-depth setting, independent of difficulty.
type Intensity string

const (
	IntensityLight    Intensity = "light"
	IntensityStandard Intensity = "standard"
	IntensityDeep     Intensity = "deep"
)

// languageNames maps ISO codes to display names.
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ja": "Japanese",
	"zh": "Chinese",
	"ko": "Korean",
	"ar": "Arabic",
	"nl": "Dutch",
	"ru": "Russian",
	"th": "Thai",
	"vi": "Vietnamese",
	"tr": "Turkish",
	"el": "Greek",
	"pl": "Polish",
	"hi": "Hindi",
}

// scenarios maps scenario keys to short descriptions.
var scenarios = map[string]string{
	"greeting":       "Practice basic greetings and introductions",
	"restaurant":     "Ordering food at a restaurant",
	"directions":     "Asking for and giving directions",
	"shopping":       "Shopping and negotiating prices",
	"hotel":          "Checking in/out of a hotel",
	"transportation": "Using public transportation",
	"emergency":      "Handling emergency situations",
	"small_talk":     "Making casual conversation with locals",
	"sightseeing":    "Asking about tourist attractions",
}

const genericScenario = "General conversation practice"

// LanguageName returns the display name for a code, or the code uppercased
// when unknown.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// ScenarioDescription returns the description for a scenario key, with a
// generic fallback for unknown keys.
func ScenarioDescription(scenario string) string {
	if desc, ok := scenarios[scenario]; ok {
		return desc
	}
	return genericScenario
}

// Scenarios lists the known scenario keys.
func Scenarios() []string {
	keys := make([]string, 0, len(scenarios))
	for _, k := range []string{
		"greeting", "restaurant", "directions", "shopping", "hotel",
		"transportation", "emergency", "small_talk", "sightseeing",
	} {
		keys = append(keys, k)
	}
	return keys
}

// SupportedLanguages lists the known language codes.
func SupportedLanguages() []string {
	return []string{
		"en", "es", "fr", "de", "it", "pt", "ja", "zh", "ko",
		"ar", "nl", "ru", "th", "vi", "tr", "el", "pl", "hi",
	}
}

// NormalizeIntensity maps any input to a supported intensity, defaulting to
// standard.
func NormalizeIntensity(value string) Intensity {
	switch Intensity(strings.ToLower(strings.TrimSpace(value))) {
	case IntensityLight:
		return IntensityLight
	case IntensityDeep:
		return IntensityDeep
	default:
		return IntensityStandard
	}
}

// Intensities lists the supported teaching-intensity values.
func Intensities() []string {
	return []string{string(IntensityLight), string(IntensityStandard), string(IntensityDeep)}
}

// directives holds the language-balance and length guidance for one
// (difficulty, intensity) cell. Kept as data so the policy stays auditable.
type directives struct {
	balance string
	length  string
}

var directiveTable = map[string]map[Intensity]directives{
	DifficultyBeginner: {
		IntensityLight: {
			balance: "Lean heavily on %[1]s. Introduce at most one short %[2]s phrase per reply and give its literal meaning.",
			length:  "Keep replies to one or two short sentences.",
		},
		IntensityStandard: {
			balance: "Explain mostly in %[1]s. Offer one or two short %[2]s phrases per reply with simple pronunciation hints.",
			length:  "Keep replies to two or three short sentences.",
		},
		IntensityDeep: {
			balance: "Explain in %[1]s with pronunciation hints, and walk through each %[2]s phrase word by word before inviting the learner to repeat it.",
			length:  "Replies may run to four or five sentences when teaching a new phrase.",
		},
	},
	DifficultyIntermediate: {
		IntensityLight: {
			balance: "Reply mostly in %[2]s, adding a brief %[1]s aside only when the learner seems stuck.",
			length:  "Keep replies to two short sentences.",
		},
		IntensityStandard: {
			balance: "Balance %[2]s conversation with short %[1]s notes on new vocabulary or mistakes.",
			length:  "Keep replies to two or three sentences.",
		},
		IntensityDeep: {
			balance: "Converse in %[2]s, then add an %[1]s note explaining grammar or usage behind anything new, and gently correct every mistake.",
			length:  "Replies may run to four sentences when a correction needs context.",
		},
	},
	DifficultyAdvanced: {
		IntensityLight: {
			balance: "Reply only in %[2]s. Do not use %[1]s at all.",
			length:  "Match the learner's length; stay concise.",
		},
		IntensityStandard: {
			balance: "Reply in %[2]s. Use %[1]s only for one-line corrections of clear mistakes.",
			length:  "Keep replies conversational, up to three sentences.",
		},
		IntensityDeep: {
			balance: "Reply in natural, idiomatic %[2]s and push the learner with follow-up questions. Use %[1]s only to unpack subtle errors or nuance.",
			length:  "Replies may run longer when exploring nuance, up to five sentences.",
		},
	},
}

// tagContract is restated verbatim every turn so the model is reminded of
// the tagging scheme the speech pipeline depends on.
const tagContract = `Formatting contract, always required:
- Wrap every %[1]s span in [EN]...[/EN].
- Wrap every %[2]s span in [TL]...[/TL].
- Tag all text; do not nest tags; do not leave text outside tags.`

func normalizeDifficulty(difficulty string) string {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case DifficultyIntermediate:
		return DifficultyIntermediate
	case DifficultyAdvanced:
		return DifficultyAdvanced
	default:
		return DifficultyBeginner
	}
}

// ComposeSystemPrompt builds the system instruction for one turn.
func ComposeSystemPrompt(languageCode, difficulty, scenario, teachingIntensity string) string {
	languageName := LanguageName(languageCode)
	scenarioDesc := ScenarioDescription(scenario)
	level := normalizeDifficulty(difficulty)
	intensity := NormalizeIntensity(teachingIntensity)
	d := directiveTable[level][intensity]

	const explanationName = "English"

	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful language tutor. You are helping a traveler learn %s.\n\n", languageName)
	b.WriteString("Your role is to:\n")
	fmt.Fprintf(&b, "1. Have natural conversations in %s\n", languageName)
	fmt.Fprintf(&b, "2. Keep responses appropriate for %s level learners\n", level)
	b.WriteString("3. Focus on practical phrases useful for travelers\n")
	b.WriteString("4. Correct mistakes gently when the learner makes them\n")
	b.WriteString("5. Encourage and be supportive\n\n")
	fmt.Fprintf(&b, "Current scenario: %s\n\n", scenarioDesc)
	fmt.Fprintf(&b, d.balance, explanationName, languageName)
	b.WriteString("\n")
	b.WriteString(d.length)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, tagContract, explanationName, languageName)
	return b.String()
}

// Settings are the generation parameters derived from difficulty and
// teaching intensity.
type Settings struct {
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

var baseSettings = map[string]Settings{
	DifficultyBeginner:     {MaxTokens: 192, Temperature: 0.6, TopP: 0.9},
	DifficultyIntermediate: {MaxTokens: 256, Temperature: 0.7, TopP: 0.9},
	DifficultyAdvanced:     {MaxTokens: 320, Temperature: 0.75, TopP: 0.95},
}

const (
	minMaxTokens   = 96
	maxMaxTokens   = 512
	minTemperature = 0.3
	maxTemperature = 0.9
)

// ResolveGenerationSettings is a pure lookup keyed by difficulty with
// bounded adjustments from intensity: light subtracts, deep adds, both
// clamped. Identical inputs always yield identical outputs.
func ResolveGenerationSettings(difficulty, teachingIntensity string) Settings {
	s := baseSettings[normalizeDifficulty(difficulty)]
	switch NormalizeIntensity(teachingIntensity) {
	case IntensityLight:
		s.MaxTokens -= 64
		s.Temperature -= 0.1
	case IntensityDeep:
		s.MaxTokens += 96
		s.Temperature += 0.05
	}
	if s.MaxTokens < minMaxTokens {
		s.MaxTokens = minMaxTokens
	}
	if s.MaxTokens > maxMaxTokens {
		s.MaxTokens = maxMaxTokens
	}
	if s.Temperature < minTemperature {
		s.Temperature = minTemperature
	}
	if s.Temperature > maxTemperature {
		s.Temperature = maxTemperature
	}
	return s
}
