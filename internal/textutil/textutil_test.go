package textutil

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"hello world", []string{"hello", "world"}},
		{"user_name", []string{"user_name"}},
		{"email@example.com", []string{"email", "example", "com"}},
		{"", nil},
		{"  spaces  ", []string{"spaces"}},
		{"café résumé", []string{"café", "résumé"}},
		{"hello-world", []string{"hello", "world"}},
		{"input[name]", []string{"input", "name"}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTokenNgrams(t *testing.T) {
	tokens := []string{"the", "quick", "brown", "fox"}
	got := TokenNgrams(tokens, 1, 2)
	want := []string{"the", "quick", "brown", "fox", "the quick", "quick brown", "brown fox"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TokenNgrams = %v, want %v", got, want)
	}
}

func TestNormalizeWhitespaces(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello\nworld", "hello world"},
		{"hello\r\nworld", "hello world"},
		{"a  b   c", "a b c"},
	}
	for _, tt := range tests {
		got := NormalizeWhitespaces(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeWhitespaces(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAnalyzer(t *testing.T) {
	tests := []struct {
		name string
		a    Analyzer
		text string
		want []string
	}{
		{"default", DefaultAnalyzer(), "Shipment of Gold", []string{"shipment", "of", "gold"}},
		{"stop words", Analyzer{Lowercase: true, StopWords: EnglishStopWords()}, "Shipment of gold in a fire", []string{"shipment", "gold", "fire"}},
		{"min length", Analyzer{MinLength: 3}, "a big truck", []string{"big", "truck"}},
		{"ngrams", Analyzer{Lowercase: true, MaxNgram: 2}, "Gold Silver Truck", []string{"gold", "silver", "truck", "gold silver", "silver truck"}},
		{"empty", DefaultAnalyzer(), "  ", []string{}},
	}
	for _, tt := range tests {
		got := tt.a.Analyze(tt.text)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: Analyze(%q) = %v, want %v", tt.name, tt.text, got, tt.want)
		}
	}
}
