package automation

// Schema describes the catalog of snapshot sources, their fields, and the
// available operators. The rule-builder UI renders from this instead of
// hardcoding field names.
type Schema struct {
	SourceTypes []SourceTypeSchema `json:"sourceTypes"`
	Operators   []OperatorSchema   `json:"operators"`
	Severities  []string           `json:"severities"`
}

// SourceTypeSchema describes one snapshot source and its fields.
type SourceTypeSchema struct {
	Name   string        `json:"name"`
	Label  string        `json:"label"`
	Fields []FieldSchema `json:"fields"`
}

// FieldSchema describes a snapshot field available for condition building.
type FieldSchema struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Type      string   `json:"type"` // "number" or "boolean"
	Operators []string `json:"operators"`
}

// OperatorSchema describes an operator for the UI.
type OperatorSchema struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"` // "equality" or "ordering"
}

var equalityOperators = []string{OperatorEquals, OperatorNotEquals}

var orderingOperators = []string{
	OperatorEquals, OperatorNotEquals,
	OperatorGreaterThan, OperatorGreaterOrEqual,
	OperatorLessThan, OperatorLessOrEqual,
}

// GetSchema returns the full automation schema for the UI.
func GetSchema() Schema {
	return Schema{
		SourceTypes: []SourceTypeSchema{
			{
				Name:  SourceTypeHealth,
				Label: "Site Health",
				Fields: []FieldSchema{
					{Name: FieldIsStale, Label: "Is Stale", Type: "boolean", Operators: equalityOperators},
					{Name: FieldDaysSinceDeploy, Label: "Days Since Deploy", Type: "number", Operators: orderingOperators},
					{Name: FieldDaysSinceContentUpdate, Label: "Days Since Content Update", Type: "number", Operators: orderingOperators},
				},
			},
			{
				Name:  SourceTypeScan,
				Label: "Site Scan",
				Fields: []FieldSchema{
					{Name: FieldScanScore, Label: "Crawl Score", Type: "number", Operators: orderingOperators},
					{Name: FieldIssuesCritical, Label: "Critical Issues", Type: "number", Operators: orderingOperators},
					{Name: FieldIssuesTotal, Label: "Total Issues", Type: "number", Operators: orderingOperators},
				},
			},
		},
		Operators: []OperatorSchema{
			{Name: OperatorEquals, Label: "equals", Type: "equality"},
			{Name: OperatorNotEquals, Label: "does not equal", Type: "equality"},
			{Name: OperatorGreaterThan, Label: "greater than", Type: "ordering"},
			{Name: OperatorGreaterOrEqual, Label: "greater or equal", Type: "ordering"},
			{Name: OperatorLessThan, Label: "less than", Type: "ordering"},
			{Name: OperatorLessOrEqual, Label: "less or equal", Type: "ordering"},
		},
		Severities: []string{SeverityInfo, SeverityWarning, SeverityCritical},
	}
}
