package equity

import "fmt"

// SchemaError reports a required column missing from an input table.
type SchemaError struct {
	Table  string // "census" or "damage"
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s table: missing required column %q", e.Table, e.Column)
}

// DomainError reports a numeric input or parameter outside its valid domain.
type DomainError struct {
	Quantity string
	Detail   string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Quantity, e.Detail)
}

// ValidationError reports structurally invalid input data, such as duplicate
// aggregation keys.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return "invalid input data: " + e.Detail
}

// StateError reports an operation called before its prerequisite.
type StateError struct {
	Operation string
	Requires  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s requires %s to have run first", e.Operation, e.Requires)
}
