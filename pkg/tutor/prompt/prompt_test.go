package prompt

import (
	"strings"
	"testing"
)

func TestLanguageName(t *testing.T) {
	tests := []struct{ code, want string }{
		{"es", "Spanish"},
		{"EN", "English"},
		{"xx", "XX"},
		{" ja ", "Japanese"},
	}
	for _, tt := range tests {
		if got := LanguageName(tt.code); got != tt.want {
			t.Errorf("LanguageName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestScenarioDescriptionFallback(t *testing.T) {
	if got := ScenarioDescription("restaurant"); got != "Ordering food at a restaurant" {
		t.Fatalf("ScenarioDescription(restaurant) = %q", got)
	}
	if got := ScenarioDescription("time_travel"); got != genericScenario {
		t.Fatalf("ScenarioDescription(unknown) = %q, want generic fallback", got)
	}
}

func TestNormalizeIntensity(t *testing.T) {
	tests := []struct {
		in   string
		want Intensity
	}{
		{"light", IntensityLight},
		{"DEEP", IntensityDeep},
		{"standard", IntensityStandard},
		{"", IntensityStandard},
		{"bogus", IntensityStandard},
	}
	for _, tt := range tests {
		if got := NormalizeIntensity(tt.in); got != tt.want {
			t.Errorf("NormalizeIntensity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestComposeSystemPromptMentionsLanguageAndScenario(t *testing.T) {
	p := ComposeSystemPrompt("es", "beginner", "restaurant", "standard")
	for _, want := range []string{"Spanish", "Ordering food at a restaurant", "beginner"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestComposeSystemPromptAlwaysStatesTagContract(t *testing.T) {
	for _, difficulty := range []string{"beginner", "intermediate", "advanced"} {
		for _, intensity := range []string{"light", "standard", "deep"} {
			p := ComposeSystemPrompt("fr", difficulty, "greeting", intensity)
			if !strings.Contains(p, "[EN]...[/EN]") || !strings.Contains(p, "[TL]...[/TL]") {
				t.Errorf("prompt for %s/%s omits the tagging contract", difficulty, intensity)
			}
		}
	}
}

func TestComposeSystemPromptVariesByCell(t *testing.T) {
	seen := make(map[string]string)
	for _, difficulty := range []string{"beginner", "intermediate", "advanced"} {
		for _, intensity := range []string{"light", "standard", "deep"} {
			p := ComposeSystemPrompt("es", difficulty, "greeting", intensity)
			for cell, prev := range seen {
				if prev == p {
					t.Errorf("prompt for %s/%s identical to %s", difficulty, intensity, cell)
				}
			}
			seen[difficulty+"/"+intensity] = p
		}
	}
}

func TestComposeSystemPromptAdvancedLightExcludesEnglish(t *testing.T) {
	p := ComposeSystemPrompt("de", "advanced", "small_talk", "light")
	if !strings.Contains(p, "Do not use English at all") {
		t.Fatalf("advanced/light prompt should direct target-language-only output:\n%s", p)
	}
}

func TestResolveGenerationSettingsLightBelowStandard(t *testing.T) {
	for _, difficulty := range []string{"beginner", "intermediate", "advanced"} {
		light := ResolveGenerationSettings(difficulty, "light")
		standard := ResolveGenerationSettings(difficulty, "standard")
		if light.MaxTokens >= standard.MaxTokens {
			t.Errorf("%s: light MaxTokens %d not below standard %d", difficulty, light.MaxTokens, standard.MaxTokens)
		}
		if light.Temperature > standard.Temperature {
			t.Errorf("%s: light Temperature %v above standard %v", difficulty, light.Temperature, standard.Temperature)
		}
	}
}

func TestResolveGenerationSettingsClamped(t *testing.T) {
	light := ResolveGenerationSettings("beginner", "light")
	if light.MaxTokens < minMaxTokens {
		t.Fatalf("MaxTokens %d below floor %d", light.MaxTokens, minMaxTokens)
	}
	if light.Temperature < minTemperature {
		t.Fatalf("Temperature %v below floor %v", light.Temperature, minTemperature)
	}
	deep := ResolveGenerationSettings("advanced", "deep")
	if deep.MaxTokens > maxMaxTokens {
		t.Fatalf("MaxTokens %d above ceiling %d", deep.MaxTokens, maxMaxTokens)
	}
	if deep.Temperature > maxTemperature {
		t.Fatalf("Temperature %v above ceiling %v", deep.Temperature, maxTemperature)
	}
}

func TestResolveGenerationSettingsIdempotent(t *testing.T) {
	a := ResolveGenerationSettings("intermediate", "deep")
	b := ResolveGenerationSettings("intermediate", "deep")
	if a != b {
		t.Fatalf("settings differ across calls: %+v vs %+v", a, b)
	}
}

func TestResolveGenerationSettingsUnknownDifficultyDefaultsBeginner(t *testing.T) {
	got := ResolveGenerationSettings("expert", "standard")
	want := ResolveGenerationSettings("beginner", "standard")
	if got != want {
		t.Fatalf("unknown difficulty = %+v, want beginner settings %+v", got, want)
	}
}
