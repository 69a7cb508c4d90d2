package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"
	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/bookflow/query"
)

// classify wraps a database error as a transient or fatal QueryError.
func classify(fn string, err error) error {
	kind := query.Fatal
	if transient(err) {
		kind = query.Transient
	}

	return &query.QueryError{
		Kind:     kind,
		Function: fn,
		Err:      goerr.Wrap(err, "database call failed", goerr.V("function", fn), goerr.V("kind", string(kind))),
	}
}

func transient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53":
			// connection exception, insufficient resources
			return true
		}
		switch pqErr.Code {
		case "57P01", "57P02", "57P03", "57014", "40001", "40P01":
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
