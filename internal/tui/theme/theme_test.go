package theme

import "testing"

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %s", got.Name)
	}
	if got := ByName("nope"); got.Name != FlexokiDark.Name {
		t.Errorf("ByName(nope) = %s, want flexoki-dark", got.Name)
	}
}

func TestSetActiveAndNames(t *testing.T) {
	defer SetActive(FlexokiDark.Name)

	SetActive("catppuccin-mocha")
	if Active.Name != "catppuccin-mocha" {
		t.Errorf("Active = %s", Active.Name)
	}
	want := []string{"flexoki-dark", "catppuccin-mocha", "tokyo-night"}
	names := Names()
	if len(names) != len(want) {
		t.Fatalf("Names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
	if !Valid("tokyo-night") || Valid("terminal") || Valid("") {
		t.Error("Valid mismatch")
	}
}

func TestPalettesFillEveryRole(t *testing.T) {
	for _, th := range All {
		roles := map[string]string{
			"Background": string(th.Background), "Surface": string(th.Surface),
			"SurfaceHover": string(th.SurfaceHover), "Border": string(th.Border),
			"BorderAccent": string(th.BorderAccent), "TextDim": string(th.TextDim),
			"TextMuted": string(th.TextMuted), "TextPrimary": string(th.TextPrimary),
			"Accent": string(th.Accent), "AccentBright": string(th.AccentBright),
			"Green": string(th.Green), "Yellow": string(th.Yellow),
			"Orange": string(th.Orange), "Red": string(th.Red),
			"Blue": string(th.Blue), "Cyan": string(th.Cyan),
		}
		for role, c := range roles {
			if c == "" {
				t.Errorf("%s: %s unset", th.Name, role)
			}
		}
	}
}
