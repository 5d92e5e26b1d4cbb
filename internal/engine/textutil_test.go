package engine

import (
	"math"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "BS Accountancy", "bs accountancy"},
		{"punctuation to space", "B.S. Accountancy", "b s accountancy"},
		{"collapse whitespace", "  civil   service \t sub-professional ", "civil service sub professional"},
		{"empty", "", ""},
		{"only punctuation", "?!--", ""},
		{"digits kept", "RA 1080", "ra 1080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"drops short and stop words", "BS in Information Technology", []string{"information", "technology"}},
		{"drops stopword degree", "Bachelor's Degree major in Accountancy", []string{"bachelor", "accountancy"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStringSimilarity(t *testing.T) {
	t.Run("identical scores 100", func(t *testing.T) {
		for _, s := range []string{"nurse", "BS Information Technology", "c"} {
			if got := StringSimilarity(s, s); got != 100 {
				t.Errorf("StringSimilarity(%q, %q) = %v, want 100", s, s, got)
			}
		}
	})

	t.Run("empty scores 0", func(t *testing.T) {
		if got := StringSimilarity("", "anything"); got != 0 {
			t.Errorf("StringSimilarity(\"\", ...) = %v, want 0", got)
		}
	})

	t.Run("case and punctuation insensitive", func(t *testing.T) {
		if got := StringSimilarity("B.S. Accountancy", "bs accountancy"); got != 100 {
			t.Errorf("expected 100 after normalization, got %v", got)
		}
	})

	t.Run("near match scores high", func(t *testing.T) {
		got := StringSimilarity("javascript", "javascrpt")
		if got < 80 || got >= 100 {
			t.Errorf("expected high-band score, got %v", got)
		}
	})

	t.Run("unrelated scores low", func(t *testing.T) {
		if got := StringSimilarity("plumbing", "accountancy"); got >= 50 {
			t.Errorf("expected low score, got %v", got)
		}
	})
}

func TestTokenOverlap(t *testing.T) {
	t.Run("identical token sets", func(t *testing.T) {
		if got := TokenOverlap("information technology", "Information Technology"); got != 1 {
			t.Errorf("want 1, got %v", got)
		}
	})

	t.Run("partial overlap", func(t *testing.T) {
		got := TokenOverlap("information technology", "information systems")
		if math.Abs(got-1.0/3.0) > 1e-9 {
			t.Errorf("want 1/3, got %v", got)
		}
	})

	t.Run("no tokens", func(t *testing.T) {
		if got := TokenOverlap("", "anything here"); got != 0 {
			t.Errorf("want 0, got %v", got)
		}
	})
}
