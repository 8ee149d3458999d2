package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "The Matrix", "the-matrix"},
		{"punctuation runs", "Mission: Impossible -- Fallout!", "mission-impossible-fallout"},
		{"accents", "Amélie à Montréal", "amelie-a-montreal"},
		{"digits", "2001: A Space Odyssey", "2001-a-space-odyssey"},
		{"trim", "  ...Se7en...  ", "se7en"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.title); got != tt.want {
				t.Fatalf("Make(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func FuzzMake(f *testing.F) {
	for _, seed := range []string{"The Matrix", "Amélie", "", "--a--"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, title string) {
		got := Make(title)
		if got != Make(got) {
			t.Fatalf("Make not idempotent for %q: %q", title, got)
		}
		for _, r := range got {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
				t.Fatalf("Make(%q) = %q contains %q", title, got, r)
			}
		}
	})
}
