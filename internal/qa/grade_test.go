package qa

import "testing"

func TestGrade(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		expected string
		want     bool
	}{
		{"exact ignoring case", "lisinopril", "Lisinopril", true},
		{"user contained in expected", "ace inhibitor", "ACE Inhibitors", true},
		{"expected contained in user", "it is Zestril brand", "Zestril", true},
		{"surrounding space", "  Norvasc ", "norvasc", true},
		{"unrelated", "xyz", "abc", false},
		{"short substring still contained", "hi", "high blood pressure", true},
		{"short answer skips overlap", "bp", "high blood pressure", false},
		{"three letters skip overlap", "ace", "angiotensin receptor blocker", false},
		{"token overlap", "blood thinner", "Reduces blood clots", true},
		{"overlap needs token longer than three", "the drug", "not the one", false},
		{"overlap is whole token", "pressures", "high blood pressure", false},
		{"blank answer", "   ", "Zestril", false},
		{"empty answer", "", "Zestril", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Grade(tt.user, tt.expected); got != tt.want {
				t.Errorf("Grade(%q, %q) = %v, want %v", tt.user, tt.expected, got, tt.want)
			}
		})
	}
}
