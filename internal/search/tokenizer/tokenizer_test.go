package tokenizer

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple sentence",
			input: "Managing work stress effectively",
			want:  []string{"managing", "work", "stress", "effectively"},
		},
		{
			name:  "punctuation becomes separators",
			input: "sleep-deprivation, anxiety... burnout!",
			want:  []string{"sleep", "deprivation", "anxiety", "burnout"},
		},
		{
			name:  "stop words removed",
			input: "the stress and the anxiety",
			want:  []string{"stress", "anxiety"},
		},
		{
			name:  "short tokens dropped",
			input: "go to ok gym",
			want:  []string{"gym"},
		},
		{
			name:  "digits kept",
			input: "sleep 8 hours every 24h cycle",
			want:  []string{"sleep", "hours", "every", "24h", "cycle"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "   \t\n  ",
			want:  []string{},
		},
		{
			name:  "mixed case normalised",
			input: "Work STRESS Work",
			want:  []string{"work", "stress", "work"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// Retokenizing the joined output must yield the same terms: tokenisation is
// idempotent over its own output alphabet.
func TestTokenizeIdempotent(t *testing.T) {
	inputs := []string{
		"Managing work-related stress, day by day.",
		"Anxiety & Sleep: a 30-day reset plan",
		"MINDFULNESS  practice   for beginners!!!",
	}
	for _, input := range inputs {
		first := Tokenize(input)
		second := Tokenize(strings.Join(first, " "))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("retokenize(%q): got %v, want %v", input, second, first)
		}
	}
}

func TestIsStopWord(t *testing.T) {
	if !IsStopWord("the") {
		t.Error(`IsStopWord("the") = false, want true`)
	}
	if IsStopWord("stress") {
		t.Error(`IsStopWord("stress") = true, want false`)
	}
}

func BenchmarkTokenize(b *testing.B) {
	text := "Managing workplace stress through mindfulness, regular exercise, " +
		"consistent sleep schedules, and healthy boundaries with colleagues."
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Tokenize(text)
	}
}
