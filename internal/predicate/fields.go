package predicate

// FieldType is the value type of a filterable field.
type FieldType int

const (
	FieldTypeString FieldType = iota
	FieldTypeNumber
)

// Field describes one filterable field of a comparison row or run.
type Field struct {
	Name     string
	Type     FieldType
	Nullable bool
	// Column is the SQL expression the field compiles to. Run-level
	// fields use the "r" alias, example-level fields the "e" alias.
	Column string
	Doc    string
}

// Fields is the set of fields a filter condition may reference.
// Order matters for suggestions.
var Fields = []Field{
	{Name: "input", Type: FieldTypeString, Column: "e.input", Doc: "example input"},
	{Name: "reference_output", Type: FieldTypeString, Column: "e.reference_output", Doc: "expected output for the example"},
	{Name: "output", Type: FieldTypeString, Nullable: true, Column: "r.output", Doc: "run output"},
	{Name: "error", Type: FieldTypeString, Nullable: true, Column: "r.error", Doc: "run execution error"},
	{Name: "latency_ms", Type: FieldTypeNumber, Column: "r.latency_ms", Doc: "run latency in milliseconds"},
	{Name: "tokens_total", Type: FieldTypeNumber, Column: "r.tokens_total", Doc: "total tokens used by the run"},
	{Name: "cost_usd", Type: FieldTypeNumber, Column: "r.cost_usd", Doc: "estimated run cost in USD"},
}

// FieldByName looks up a field definition.
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
