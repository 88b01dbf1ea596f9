// Package voices maps languages to Piper voice ids and picks a voice for a
// requested language and style.
package voices

import "strings"

// Style is a coarse voice preference used to pick among a language's voices.
type Style string

const (
	StyleFemale Style = "female"
	StyleMale   Style = "male"
)

// Voice is one catalog entry.
type Voice struct {
	ID     string `json:"id"`
	Style  Style  `json:"style"`
	Region string `json:"region,omitempty"`
}

// FallbackVoice is returned when a language is absent from the catalog.
const FallbackVoice = "en_US-lessac-medium"

// catalog lists candidate voices per language in preference order.
var catalog = map[string][]Voice{
	"en": {
		{ID: "en_US-lessac-medium", Style: StyleFemale, Region: "US"},
		{ID: "en_US-amy-medium", Style: StyleFemale, Region: "US"},
		{ID: "en_US-ryan-high", Style: StyleMale, Region: "US"},
		{ID: "en_GB-alan-medium", Style: StyleMale, Region: "GB"},
	},
	"es": {
		{ID: "es_ES-davefx-medium", Style: StyleMale, Region: "ES"},
		{ID: "es_MX-ald-medium", Style: StyleFemale, Region: "MX"},
	},
	"fr": {
		{ID: "fr_FR-siwis-medium", Style: StyleFemale, Region: "FR"},
		{ID: "fr_FR-gilles-low", Style: StyleMale, Region: "FR"},
		{ID: "fr_FR-upmc-medium", Style: StyleFemale, Region: "FR"},
	},
	"de": {
		{ID: "de_DE-thorsten-medium", Style: StyleMale, Region: "DE"},
		{ID: "de_DE-eva_k-x_low", Style: StyleFemale, Region: "DE"},
		{ID: "de_DE-karlsson-low", Style: StyleMale, Region: "DE"},
	},
	"it": {
		{ID: "it_IT-riccardo-x_low", Style: StyleMale, Region: "IT"},
		{ID: "it_IT-paola-medium", Style: StyleFemale, Region: "IT"},
	},
	"pt": {
		{ID: "pt_BR-faber-medium", Style: StyleMale, Region: "BR"},
		{ID: "pt_PT-tugao-medium", Style: StyleMale, Region: "PT"},
	},
	"ja": {
		{ID: "ja_JP-kokoro-medium", Style: StyleFemale, Region: "JP"},
	},
	"zh": {
		{ID: "zh_CN-huayan-medium", Style: StyleFemale, Region: "CN"},
	},
	"ko": {
		{ID: "ko_KR-keonhee-medium", Style: StyleMale, Region: "KR"},
	},
	"ar": {
		{ID: "ar_JO-kareem-medium", Style: StyleMale, Region: "JO"},
	},
	"nl": {
		{ID: "nl_NL-mls-medium", Style: StyleFemale, Region: "NL"},
	},
	"ru": {
		{ID: "ru_RU-dmitri-medium", Style: StyleMale, Region: "RU"},
		{ID: "ru_RU-irina-medium", Style: StyleFemale, Region: "RU"},
	},
	"th": {
		{ID: "th_TH-pongkul-medium", Style: StyleMale, Region: "TH"},
	},
	"vi": {
		{ID: "vi_VN-vivos-x_low", Style: StyleFemale, Region: "VN"},
	},
	"tr": {
		{ID: "tr_TR-dfki-medium", Style: StyleMale, Region: "TR"},
	},
	"el": {
		{ID: "el_GR-rapunzelina-low", Style: StyleFemale, Region: "GR"},
	},
	"pl": {
		{ID: "pl_PL-mls-medium", Style: StyleFemale, Region: "PL"},
	},
}

// NormalizeStyle maps any input to a supported style, defaulting to female.
func NormalizeStyle(preference string) Style {
	switch strings.ToLower(strings.TrimSpace(preference)) {
	case string(StyleMale):
		return StyleMale
	default:
		return StyleFemale
	}
}

// Resolve picks a voice id for a language. An explicit voice id wins when it
// belongs to the language's catalog entry; otherwise the first voice whose
// style matches is used, then the language's first voice, then the global
// fallback. Resolve is total: it always returns a usable voice id.
func Resolve(language string, preference string, explicitVoiceID string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	candidates := catalog[lang]

	if explicitVoiceID != "" {
		for _, v := range candidates {
			if v.ID == explicitVoiceID {
				return explicitVoiceID
			}
		}
	}

	if len(candidates) == 0 {
		return FallbackVoice
	}

	style := NormalizeStyle(preference)
	for _, v := range candidates {
		if v.Style == style {
			return v.ID
		}
	}
	return candidates[0].ID
}

// Selection holds the voices resolved for one bilingual utterance.
type Selection struct {
	Style               Style  `json:"voice_style"`
	TargetLanguage      string `json:"target_language"`
	TargetVoice         string `json:"target_voice"`
	ExplanationLanguage string `json:"explanation_language"`
	ExplanationVoice    string `json:"explanation_voice"`
}

// ResolveBilingual resolves voices for the target and explanation languages.
// When the two languages coincide both selections are forced identical so
// the utterance keeps a single voice throughout.
func ResolveBilingual(targetLanguage, preference, targetOverride, explanationOverride, explanationLanguage string) Selection {
	style := NormalizeStyle(preference)
	target := strings.ToLower(strings.TrimSpace(targetLanguage))
	explanation := strings.ToLower(strings.TrimSpace(explanationLanguage))
	if explanation == "" {
		explanation = "en"
	}

	sel := Selection{
		Style:               style,
		TargetLanguage:      target,
		TargetVoice:         Resolve(target, string(style), targetOverride),
		ExplanationLanguage: explanation,
		ExplanationVoice:    Resolve(explanation, string(style), explanationOverride),
	}
	if target == explanation {
		sel.ExplanationVoice = sel.TargetVoice
	}
	return sel
}

// VoiceMap returns the language-to-voice mapping for one selection, keyed by
// language code, for use by audio assembly.
func (s Selection) VoiceMap() map[string]string {
	return map[string]string{
		s.TargetLanguage:      s.TargetVoice,
		s.ExplanationLanguage: s.ExplanationVoice,
	}
}

// Catalog returns a copy of the full voice catalog.
func Catalog() map[string][]Voice {
	out := make(map[string][]Voice, len(catalog))
	for lang, vs := range catalog {
		out[lang] = append([]Voice(nil), vs...)
	}
	return out
}

// Styles lists the supported style values.
func Styles() []string {
	return []string{string(StyleFemale), string(StyleMale)}
}
