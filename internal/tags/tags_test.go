package tags

import "testing"

func TestPrepareForStorage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"☕ Coffee", "Coffee"},
		{"  running   FAST ", "Running Fast"},
		{"🏃‍♂️ Running", "Running"},
		{"hiking", "Hiking"},
		{"⚽️football", "Football"},
		{"🎉🎉🎉", ""},
	}

	for _, tt := range tests {
		if got := PrepareForStorage(tt.in); got != tt.want {
			t.Errorf("PrepareForStorage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrepareForStorageIdempotent(t *testing.T) {
	inputs := []string{"☕ Coffee", "  running   FAST ", "board  games 🎲", "Тest", ""}
	for _, in := range inputs {
		once := PrepareForStorage(in)
		if twice := PrepareForStorage(once); twice != once {
			t.Errorf("PrepareForStorage not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"☕ Coffee", "coffee", true},
		{"Coffee", "Tea", false},
		{"BOARD GAMES", "board  games 🎲", true},
	}

	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]string{"☕ Coffee", "coffee", "TEA", "🎉", "tea"})
	want := []string{"Coffee", "Tea"}
	if len(got) != len(want) {
		t.Fatalf("Normalize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Normalize()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
