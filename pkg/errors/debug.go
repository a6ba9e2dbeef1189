package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// maxChainDepth bounds how many wrapped errors are recorded in a dump.
const maxChainDepth = 8

// ErrorDump is a log-friendly snapshot of an error chain. It never reaches
// API clients.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Retryable  bool     `json:"retryable,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	Driver       string `json:"driver,omitempty"`
	SQLState     string `json:"sql_state,omitempty"`
	Constraint   string `json:"constraint,omitempty"`
	Table        string `json:"table,omitempty"`
	Column       string `json:"column,omitempty"`
	DriverDetail string `json:"driver_detail,omitempty"`
}

// Dump walks err and captures the typed code plus any database driver
// diagnostics (pgx, lib/pq, or SQLite constraint messages).
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Retryable = MetadataFor(te.Code()).Retryable
	}

	for e := err; e != nil && len(d.Chain) < maxChainDepth; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		d.Driver = "pgx"
		d.SQLState = pgxErr.Code
		d.Constraint = pgxErr.ConstraintName
		d.Table = pgxErr.TableName
		d.Column = pgxErr.ColumnName
		d.DriverDetail = firstNonEmpty(pgxErr.Detail, pgxErr.Message)
	case errors.As(err, &pqErr):
		d.Driver = "pq"
		d.SQLState = string(pqErr.Code)
		d.Constraint = pqErr.Constraint
		d.Table = pqErr.Table
		d.Column = pqErr.Column
		d.DriverDetail = firstNonEmpty(pqErr.Detail, pqErr.Message)
	default:
		// sqlite only reports constraints in the message text.
		for e := err; e != nil; e = errors.Unwrap(e) {
			msg := e.Error()
			if idx := strings.Index(msg, "constraint failed: "); idx >= 0 {
				d.Driver = "sqlite"
				d.DriverDetail = msg[idx+len("constraint failed: "):]
				break
			}
		}
	}

	return d
}

// Fields flattens the dump into structured log fields, omitting empty values.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{"error": d.TopMessage}
	if d.Code != "" {
		fields["error_code"] = string(d.Code)
	}
	if d.Retryable {
		fields["retryable"] = true
	}
	if len(d.Chain) > 1 {
		fields["error_chain"] = d.Chain
	}
	for k, v := range map[string]string{
		"db_driver":     d.Driver,
		"db_sql_state":  d.SQLState,
		"db_constraint": d.Constraint,
		"db_table":      d.Table,
		"db_column":     d.Column,
		"db_detail":     d.DriverDetail,
	} {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
