package diag

// Code identifies the category of a diagnostic independent of its message
// text, so tooling can filter/match on it without parsing prose.
type Code string

const (
	CodeSyntaxError      Code = "syntax-error"
	CodeUnknownIdent     Code = "unknown-identifier"
	CodeDuplicateSymbol  Code = "duplicate-symbol"
	CodeTypeMismatch     Code = "type-mismatch"
	CodeNonBoolCondition Code = "non-bool-condition"
	CodeImplicitConvert  Code = "implicit-conversion"
	CodeNarrowingAssign  Code = "narrowing-assignment"
	CodeUnknownVariant   Code = "unknown-sum-variant"
	CodeArgMismatch      Code = "argument-mismatch"

	CodeCyclicDependency Code = "cyclic-dependency"
	CodeMissingModule    Code = "missing-module"
	CodeDuplicateModule  Code = "duplicate-module"
	CodeIOError          Code = "io-error"
	CodeInternalError    Code = "internal-error"
	CodeCancelled        Code = "cancelled"
)
