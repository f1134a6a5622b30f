package components

// View models for the comparison UI. Handlers build these from domain
// values; everything here is preformatted for display.

type DatasetItem struct {
	ID          string
	Name        string
	Description string
	Examples    int64
	CompareURL  string
}

type ExperimentColumn struct {
	ID          string
	Name        string
	Repetitions int
}

type FilterStatusData struct {
	State   string // idle, pending, valid, invalid, errored
	Message string
}

type AnnotationItem struct {
	Name     string
	Score    string
	Label    string
	Kind     string
	TraceURL string
}

type RunItem struct {
	Repetition  int
	NotRun      bool
	HasError    bool
	Error       string
	Output      string
	Latency     string
	TraceURL    string
	Annotations []AnnotationItem
}

type CellItem struct {
	Empty      bool
	Runs       []RunItem
	AvgLatency string
	Tokens     string
	Cost       string
}

type RowItem struct {
	Index           int
	ExampleID       string
	Input           string
	ReferenceOutput string
	DetailURL       string
	Cells           []CellItem
}

type RowsData struct {
	ViewID     string
	StartIndex int
	Columns    int // experiment column count, for the sentinel colspan
	Rows       []RowItem
	HasNext    bool
}

type CompareData struct {
	ViewID      string
	DatasetName string
	FilterText  string
	Status      FilterStatusData
	Suggestions []string
	Columns     []ExperimentColumn
	Rows        RowsData
}

type DetailExperiment struct {
	Name string
	Runs []RunItem
}

type DetailData struct {
	ViewID          string
	Index           int
	Loaded          int
	HasNext         bool
	ExampleID       string
	Input           string
	ReferenceOutput string
	Experiments     []DetailExperiment
}
