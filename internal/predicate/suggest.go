package predicate

import "strings"

// SuggestionKind classifies an autocomplete entry.
type SuggestionKind string

const (
	SuggestionField    SuggestionKind = "field"
	SuggestionKeyword  SuggestionKind = "keyword"
	SuggestionOperator SuggestionKind = "operator"
)

// Suggestion is one autocomplete candidate for the filter input.
type Suggestion struct {
	Text string
	Kind SuggestionKind
	Doc  string
}

var keywords = []Suggestion{
	{Text: "and", Kind: SuggestionKeyword},
	{Text: "or", Kind: SuggestionKeyword},
	{Text: "not", Kind: SuggestionKeyword},
	{Text: "is None", Kind: SuggestionKeyword},
	{Text: "is not None", Kind: SuggestionKeyword},
	{Text: "contains", Kind: SuggestionOperator},
}

// Suggest returns completion candidates for the word being typed.
// An empty prefix returns every field.
func Suggest(prefix string) []Suggestion {
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	var out []Suggestion
	for _, f := range Fields {
		if prefix == "" || strings.HasPrefix(f.Name, prefix) {
			out = append(out, Suggestion{Text: f.Name, Kind: SuggestionField, Doc: f.Doc})
		}
	}
	if prefix == "" {
		return out
	}
	for _, k := range keywords {
		if strings.HasPrefix(k.Text, prefix) {
			out = append(out, k)
		}
	}
	return out
}
