// Package sqlxrepos holds the Postgres repositories.
// Queries are written with "?" placeholders and rebound to "$N"; rows are scanned with sqlx.
package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core"
)

// base is embedded by every repository. exec passed to a repository method overrides db, e.g. a transaction.
type base struct {
	db *sqlx.DB
}

func (b base) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return b.db
}

// inTx runs fn in a new transaction, unless svcExec already holds one.
func (b base) inTx(ctx context.Context, svcExec []core.DBExecutor, fn func(exec core.DBExecutor) error) error {
	if len(svcExec) > 0 && svcExec[0] != nil {
		if _, ok := svcExec[0].(core.DBTransactor); ok {
			return fn(svcExec[0])
		}
	}

	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

// selectRows scans every row of query into dest, a pointer to a slice of db-tagged structs.
func selectRows(ctx context.Context, exec core.DBExecutor, dest interface{}, query string, args ...interface{}) error {
	query, args, err := expand(query, args)
	if err != nil {
		return err
	}
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	return sqlx.StructScan(rows, dest)
}

func execQuery(ctx context.Context, exec core.DBExecutor, query string, args ...interface{}) (int, error) {
	query, args, err := expand(query, args)
	if err != nil {
		return 0, err
	}
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// expand turns slice args into "IN (?, ?)" lists, then rebinds to Postgres placeholders.
func expand(query string, args []interface{}) (string, []interface{}, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, errors.Wrap(err, "expanding query args")
	}
	return sqlx.Rebind(sqlx.DOLLAR, query), args, nil
}

// conditions collects the AND-ed clauses of a WHERE.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, args ...interface{}) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

func (c conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE (" + strings.Join(c.clauses, ") AND (") + ")"
}

// orderBy keeps the orderings whose field is a key of columns.
func orderBy(ordering []core.DBOrdering, columns map[string]string) string {
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		col, ok := columns[ord.Field]
		if !ok {
			continue
		}
		ord.Field = col
		orderList = append(orderList, ord.String())
	}
	if len(orderList) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}
