package adapters

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Driver errors are tagged with one of these where the cause is known.
var (
	ErrInvalidSQL          = errors.New("invalid sql")
	ErrQueryCanceled       = errors.New("query canceled")
	ErrDatabaseUnavailable = errors.New("database unavailable")
)

var sqlStateErrors = map[pq.ErrorCode]error{
	"42601": ErrInvalidSQL, // syntax_error
	"42703": ErrInvalidSQL, // undefined_column
	"42P01": ErrInvalidSQL, // undefined_table
	"42883": ErrInvalidSQL, // undefined_function
	"42804": ErrInvalidSQL, // datatype_mismatch

	"57014": ErrQueryCanceled, // query_canceled

	"53000": ErrDatabaseUnavailable, // insufficient_resources
	"53300": ErrDatabaseUnavailable, // too_many_connections
	"57P01": ErrDatabaseUnavailable, // admin_shutdown
	"57P03": ErrDatabaseUnavailable, // cannot_connect_now
}

func tag(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}

func translatePostgresError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return translateConnError(err)
	}

	if sentinel, ok := sqlStateErrors[pqErr.Code]; ok {
		return tag(sentinel, err)
	}
	// connection_exception class
	if pqErr.Code.Class() == "08" {
		return tag(ErrDatabaseUnavailable, err)
	}
	return err
}

var mysqlErrors = map[uint16]error{
	1064: ErrInvalidSQL, // ER_PARSE_ERROR
	1054: ErrInvalidSQL, // ER_BAD_FIELD_ERROR
	1146: ErrInvalidSQL, // ER_NO_SUCH_TABLE
	1317: ErrQueryCanceled,
	3024: ErrQueryCanceled, // max_execution_time exceeded
	1040: ErrDatabaseUnavailable, // ER_CON_COUNT_ERROR
	1045: ErrDatabaseUnavailable, // ER_ACCESS_DENIED_ERROR
}

func translateMySQLError(err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		if errors.Is(err, mysql.ErrInvalidConn) {
			return tag(ErrDatabaseUnavailable, err)
		}
		return translateConnError(err)
	}

	if sentinel, ok := mysqlErrors[myErr.Number]; ok {
		return tag(sentinel, err)
	}
	return err
}

func translateConnError(err error) error {
	if errors.Is(err, driver.ErrBadConn) {
		return tag(ErrDatabaseUnavailable, err)
	}
	return err
}
