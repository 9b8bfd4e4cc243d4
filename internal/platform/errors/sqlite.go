package errors

// SQLite-specific helpers for mapping go-sqlite3 errors to project ErrorCode,
// extracting fields, and retry semantics

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// ExtractSQLiteError returns (sqlite3.Error, true) if the root cause is a sqlite3.Error
func ExtractSQLiteError(err error) (sqlite3.Error, bool) {
	var sqErr sqlite3.Error
	if stderrs.As(Root(err), &sqErr) {
		return sqErr, true
	}
	return sqlite3.Error{}, false
}

// Human-friendly predicates for common constraint classes.

// IsDuplicateKey reports whether the error is a unique or primary key constraint violation
func IsDuplicateKey(err error) bool {
	sqErr, ok := ExtractSQLiteError(err)
	return ok && (sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}

// IsForeignKeyViolation reports whether the error is a foreign key constraint violation
func IsForeignKeyViolation(err error) bool {
	sqErr, ok := ExtractSQLiteError(err)
	return ok && sqErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

// IsNotNullViolation reports whether the error is a not-null constraint violation
func IsNotNullViolation(err error) bool {
	sqErr, ok := ExtractSQLiteError(err)
	return ok && sqErr.ExtendedCode == sqlite3.ErrConstraintNotNull
}

// IsCheckViolation reports whether the error is a check constraint violation
func IsCheckViolation(err error) bool {
	sqErr, ok := ExtractSQLiteError(err)
	return ok && sqErr.ExtendedCode == sqlite3.ErrConstraintCheck
}

// IsBusy reports whether the database file or a table was locked by another
// connection when the statement ran
func IsBusy(err error) bool {
	sqErr, ok := ExtractSQLiteError(err)
	return ok && (sqErr.Code == sqlite3.ErrBusy || sqErr.Code == sqlite3.ErrLocked)
}

// DBErrorCode maps a SQLite error to an ErrorCode with an ok flag
// !ok means err wasn't a sqlite3.Error; caller may fall back to generic handling
func DBErrorCode(err error) (ErrorCode, bool) {
	var sqErr sqlite3.Error
	if !stderrs.As(err, &sqErr) {
		return ErrorCodeUnknown, false
	}

	switch sqErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ErrorCodeDuplicateKey, true

	case sqlite3.ErrConstraintForeignKey:
		// Typically this means input referenced a missing row: classify as invalid input
		return ErrorCodeInvalidArgument, true

	case sqlite3.ErrConstraintNotNull, sqlite3.ErrConstraintCheck:
		return ErrorCodeValidation, true
	}

	switch sqErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		// Retryable contention with another connection
		return ErrorCodeDB, true

	case sqlite3.ErrCantOpen, sqlite3.ErrReadonly:
		// Transient/unavailable file state
		return ErrorCodeUnavailable, true
	}

	// Default: still a DB error
	return ErrorCodeDB, true
}

// FromSQLite wraps a sqlite error with a mapped ErrorCode and message.
// If err is nil, returns nil
func FromSQLite(err error, msg string) error {
	if err == nil {
		return nil
	}
	if code, ok := DBErrorCode(err); ok {
		return Wrap(err, code, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}

// FromSQLitef is the formatted variant of FromSQLite
func FromSQLitef(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	if code, ok := DBErrorCode(err); ok {
		return Wrap(err, code, fmt.Sprintf(format, a...))
	}
	return Wrap(err, ErrorCodeDB, fmt.Sprintf(format, a...))
}

// AttachFieldFromSQLite tries to enrich an error with a column name parsed from
// the constraint message. Returns the original error if no field can be inferred
func AttachFieldFromSQLite(err error) error {
	sqErr, ok := ExtractSQLiteError(err)
	if !ok {
		return err
	}
	if f := constraintField(sqErr.Error()); f != "" {
		return WithField(err, f)
	}
	return err
}

// constraintField parses the column out of messages like
// "UNIQUE constraint failed: routings.transcript_hash"
func constraintField(msg string) string {
	i := strings.Index(msg, "constraint failed: ")
	if i < 0 {
		return ""
	}
	target := strings.TrimSpace(msg[i+len("constraint failed: "):])
	// Multi-column constraints list "t.a, t.b"; take the first
	if j := strings.IndexByte(target, ','); j >= 0 {
		target = target[:j]
	}
	if j := strings.LastIndexByte(target, '.'); j >= 0 && j+1 < len(target) {
		target = target[j+1:]
	}
	return target
}

// FromSQLiteWithField wraps the error (like FromSQLite) and then attempts to
// attach a field name if discoverable from the constraint message
func FromSQLiteWithField(err error, msg string) error {
	return AttachFieldFromSQLite(FromSQLite(err, msg))
}

// IsRetryable reports whether a database error represents a transient condition
// worth retrying. It handles both structured sqlite3.Error codes and the
// generic driver text seen when the file lock times out
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Do not retry local cancellations/timeouts; let the caller decide higher-level retries
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Unwrap to the root cause so we can see either sqlite3.Error or the lock text
	root := Root(err)

	// Structured SQLite errors by result code
	var sqErr sqlite3.Error
	if stderrs.As(root, &sqErr) {
		switch sqErr.ExtendedCode {
		case sqlite3.ErrBusySnapshot, sqlite3.ErrBusyRecovery, sqlite3.ErrLockedSharedCache:
			return true
		}
		switch sqErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return true
		default:
			return false
		}
	}

	// Fallback: text patterns emitted by the driver on lock/timeout cases
	s := strings.ToLower(root.Error())
	switch {
	case strings.Contains(s, "database is locked"),
		strings.Contains(s, "database table is locked"),
		strings.Contains(s, "database schema is locked"):
		return true
	default:
		return false
	}
}
