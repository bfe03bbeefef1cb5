package sqlerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deppfellow/consultas-api/internal/errs"
)

// ConvertPgError converts a pgconn.PgError into an Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// IsStorageError reports whether err means the store could not serve the
// request: timeouts, cancellations, network errors, closed pools and
// SQLSTATEs outside the constraint classes.
func IsStorageError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code).IsStorageFailure()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	return pgconn.Timeout(err) || errors.Is(err, pgx.ErrTxClosed)
}

// generateErrorCode creates "<DOMAIN>_<ACTION>" codes such as PEDIDO_INVALID.
// The domain is the table name upper-cased with a trailing S dropped.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidText, NumericOutOfRange:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced by the column name when it can be inferred.
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(columnFromCheckConstraint(sqlErr.ConstraintName, sqlErr.ColumnName))
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	case InvalidText, NumericOutOfRange:
		return "One or more values have an invalid format"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName infers an entity name from a FK column ("id_usuario",
// "usuario_id") or, failing that, from the table name.
func getEntityName(tableName, columnName string) string {
	lower := strings.ToLower(columnName)
	switch {
	case strings.HasPrefix(lower, "id_") && len(lower) > 3:
		return humanizeText(strings.TrimPrefix(lower, "id_"))
	case strings.HasSuffix(lower, "_id"):
		return humanizeText(strings.TrimSuffix(lower, "_id"))
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts "id_usuario" into "Id Usuario".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.Spanish).String(strings.ReplaceAll(text, "_", " "))
}

var (
	uniqueKeyRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)
	checkKeyRe  = regexp.MustCompile(`^[^_]+_([^_]+)_check$`)
)

// extractColumnForUniqueViolation infers the column from "unique_<table>_<column>"
// or "<table>_<column>_key" constraint names.
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := uniqueKeyRe.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// columnFromCheckConstraint reads the column out of Postgres' default
// "<table>_<column>_check" naming when the error has no column attached.
func columnFromCheckConstraint(constraintName, columnName string) string {
	if columnName != "" {
		return columnName
	}
	if matches := checkKeyRe.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// HandleError converts a low-level database error into an application-level error.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - *errs.DataAccessError: rendered as its HTTPError (500 DATA_ACCESS_ERROR)
//   - storage failures (timeouts, network, unknown SQLSTATE): 500 DATA_ACCESS_ERROR
//   - constraint violations: 400 with a derived code
//   - ErrNoRows: 404
//   - anything else: generic 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var dataErr *errs.DataAccessError
	if errors.As(err, &dataErr) {
		// A wrapped constraint violation is still the client's fault.
		var pgerr *pgconn.PgError
		if !errors.As(dataErr, &pgerr) || MapCode(pgerr.Code).IsStorageFailure() {
			return dataErr.HTTPError()
		}
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil, nil)

		case UniqueViolation:
			if columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName); columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)

		case CheckViolation, InvalidText, NumericOutOfRange:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		default:
			return errs.NewDataAccessError("query", err).HTTPError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		// Repositories annotate ErrNoRows with "table:<name>:" when they know it.
		errMsg := err.Error()
		tablePrefix := "table:"
		if strings.Contains(errMsg, tablePrefix) {
			table := strings.Split(strings.Split(errMsg, tablePrefix)[1], ":")[0]
			entityName := getEntityName(table, "")
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", entityName), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	if IsStorageError(err) {
		return errs.NewDataAccessError("query", err).HTTPError()
	}

	return errs.NewInternalServerError()
}
