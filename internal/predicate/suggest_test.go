package predicate

import "testing"

func suggestionTexts(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Text
	}
	return out
}

func TestSuggest_EmptyPrefixListsAllFields(t *testing.T) {
	got := Suggest("")
	if len(got) != len(Fields) {
		t.Fatalf("expected %d suggestions, got %d: %v", len(Fields), len(got), suggestionTexts(got))
	}
	for i, f := range Fields {
		if got[i].Text != f.Name {
			t.Errorf("suggestion %d: expected %q, got %q", i, f.Name, got[i].Text)
		}
		if got[i].Kind != SuggestionField {
			t.Errorf("suggestion %d: expected field kind, got %q", i, got[i].Kind)
		}
	}
}

func TestSuggest_Prefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   []string
	}{
		{prefix: "out", want: []string{"output"}},
		{prefix: "co", want: []string{"cost_usd", "contains"}},
		{prefix: "is", want: []string{"is None", "is not None"}},
		{prefix: "Lat", want: []string{"latency_ms"}},
		{prefix: "zzz", want: nil},
	}
	for _, tt := range tests {
		got := suggestionTexts(Suggest(tt.prefix))
		if len(got) != len(tt.want) {
			t.Errorf("Suggest(%q) = %v, want %v", tt.prefix, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Suggest(%q) = %v, want %v", tt.prefix, got, tt.want)
				break
			}
		}
	}
}
