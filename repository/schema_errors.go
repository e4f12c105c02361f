package repository

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint
var ErrDuplicate = errors.New("record already exists")

const sqlStateUniqueViolation = "23505"

// SchemaProblem categorizes a structural mismatch between the code and the database
type SchemaProblem string

const (
	ProblemTableMissing      SchemaProblem = "table_missing"
	ProblemColumnMissing     SchemaProblem = "column_missing"
	ProblemColumnType        SchemaProblem = "column_type"
	ProblemConstraintMissing SchemaProblem = "constraint_missing"
)

// SchemaError is an actionable schema mismatch. Remedy is SQL an operator can run.
type SchemaError struct {
	Problem SchemaProblem
	Table   string
	Column  string
	Remedy  string
	Err     error
}

func (e *SchemaError) Error() string {
	switch e.Problem {
	case ProblemTableMissing:
		return fmt.Sprintf("database schema mismatch: table %q does not exist", e.Table)
	case ProblemColumnMissing:
		return fmt.Sprintf("database schema mismatch: column %q is missing from table %q", e.Column, e.Table)
	case ProblemColumnType:
		return fmt.Sprintf("database schema mismatch: a column of table %q has an incompatible type", e.Table)
	case ProblemConstraintMissing:
		return fmt.Sprintf("database schema mismatch: table %q lacks the unique constraint needed for upsert", e.Table)
	}
	return "database schema mismatch"
}

func (e *SchemaError) Unwrap() error { return e.Err }

// AsSchemaError extracts a *SchemaError from err's chain
func AsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// Postgres SQLSTATE codes checked before falling back to text matching
var sqlStateProblems = map[string]SchemaProblem{
	"42P01": ProblemTableMissing,
	"42703": ProblemColumnMissing,
	"42P10": ProblemConstraintMissing,
	"22P02": ProblemColumnType,
	"42804": ProblemColumnType,
}

type schemaRule struct {
	pattern *regexp.Regexp
	problem SchemaProblem
}

// Ordered best-effort rules over the raw error text. First match wins.
var schemaRules = []schemaRule{
	{regexp.MustCompile(`column "?(?:\w+\.)?(\w+)"?(?: of relation "\w+")? does not exist`), ProblemColumnMissing},
	{regexp.MustCompile(`relation "(?:\w+\.)?(\w+)" does not exist`), ProblemTableMissing},
	{regexp.MustCompile(`(?i)no unique or exclusion constraint matching the ON CONFLICT`), ProblemConstraintMissing},
	{regexp.MustCompile(`ON CONFLICT`), ProblemConstraintMissing},
	{regexp.MustCompile(`invalid input syntax for type (\w+)`), ProblemColumnType},
	{regexp.MustCompile(`column "([\w.]+)" is of type \w+ but expression is of type`), ProblemColumnType},
}

var relationPattern = regexp.MustCompile(`relation "(?:\w+\.)?(\w+)"`)

// ClassifyError turns recognized schema failures on table into a *SchemaError.
// pgx.ErrNoRows becomes ErrNotFound and a unique violation wraps ErrDuplicate.
// Postgres errors with any other SQLSTATE are returned unchanged; the text rules
// only apply to errors that carry no SQLSTATE.
func ClassifyError(table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if _, ok := AsSchemaError(err); ok || errors.Is(err, ErrDuplicate) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if problem, ok := sqlStateProblems[pgErr.Code]; ok {
			se := &SchemaError{Problem: problem, Table: table, Column: pgErr.ColumnName, Err: err}
			if pgErr.TableName != "" {
				se.Table = pgErr.TableName
			}
			if m := relationPattern.FindStringSubmatch(pgErr.Message); problem == ProblemTableMissing && m != nil {
				se.Table = m[1]
			}
			if se.Column == "" && problem == ProblemColumnMissing {
				se.Column = columnFromText(pgErr.Message)
			}
			se.Remedy = remedyFor(se)
			return se
		}
		if pgErr.Code == sqlStateUniqueViolation {
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		}
		return err
	}

	msg := err.Error()
	for _, rule := range schemaRules {
		m := rule.pattern.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		se := &SchemaError{Problem: rule.problem, Table: table, Err: err}
		switch rule.problem {
		case ProblemTableMissing:
			se.Table = m[1]
		case ProblemColumnMissing:
			se.Column = m[1]
		}
		se.Remedy = remedyFor(se)
		return se
	}
	return err
}

func columnFromText(msg string) string {
	for _, rule := range schemaRules {
		if rule.problem != ProblemColumnMissing {
			continue
		}
		if m := rule.pattern.FindStringSubmatch(msg); m != nil {
			return m[1]
		}
	}
	return ""
}

func remedyFor(se *SchemaError) string {
	ddl, known := TableDDL[se.Table]
	switch se.Problem {
	case ProblemConstraintMissing:
		switch se.Table {
		case TableEntries:
			return "ALTER TABLE entries ADD CONSTRAINT entries_user_id_date_key UNIQUE (user_id, date);"
		case TableProfiles:
			return "ALTER TABLE profiles ADD PRIMARY KEY (id);"
		}
	case ProblemTableMissing:
		if known {
			return strings.TrimSpace(ddl)
		}
	case ProblemColumnMissing, ProblemColumnType:
		if known {
			return "Compare the table against this definition and migrate it:\n" + strings.TrimSpace(ddl)
		}
	}
	return "Run cmd/create-schema against the database."
}
