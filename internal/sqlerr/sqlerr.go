// Package sqlerr specifically handles database driver errors.
//
// It parses SQLSTATE codes coming from pgx and converts them into
// client-facing errors (e.g. a foreign key violation becomes a
// "Bad Request", a timeout becomes a DataAccessError).
package sqlerr

// Code is the application-level category of a PostgreSQL error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	InvalidText         Code = "invalid_text_representation"
	NumericOutOfRange   Code = "numeric_value_out_of_range"
	UndefinedTable      Code = "undefined_table"
	QueryCanceled       Code = "query_canceled"
	ConnectionFailure   Code = "connection_failure"
	TooManyConnections  Code = "too_many_connections"
	AdminShutdown       Code = "admin_shutdown"
)

// Severity mirrors the severity field of a PostgreSQL error report.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is the normalized form of a pgconn.PgError.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return e.Severity.String() + ": " + e.Message + " (SQLSTATE " + e.DatabaseCode + ")"
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

func (s Severity) String() string {
	return string(s)
}

// codes maps SQLSTATE values to Code.
// https://www.postgresql.org/docs/current/errcodes-appendix.html
var codes = map[string]Code{
	"23502": NotNullViolation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"22P02": InvalidText,
	"22003": NumericOutOfRange,
	"42P01": UndefinedTable,
	"57014": QueryCanceled,
	"08000": ConnectionFailure,
	"08003": ConnectionFailure,
	"08006": ConnectionFailure,
	"08001": ConnectionFailure,
	"08004": ConnectionFailure,
	"53300": TooManyConnections,
	"57P01": AdminShutdown,
}

// MapCode converts a SQLSTATE into a Code. Unknown states map to Other.
func MapCode(sqlState string) Code {
	if code, ok := codes[sqlState]; ok {
		return code
	}
	return Other
}

// MapSeverity converts the severity string of a PgError.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}

// IsStorageFailure reports whether the code means the store itself failed,
// as opposed to the data violating a constraint.
func (c Code) IsStorageFailure() bool {
	switch c {
	case QueryCanceled, ConnectionFailure, TooManyConnections, AdminShutdown, UndefinedTable, Other:
		return true
	default:
		return false
	}
}
