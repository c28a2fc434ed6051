package errx

import (
	"database/sql"
	"errors"
	"net/http"
)

// WrapMySQL maps catalog database errors to AppError.
func WrapMySQL(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return New(err, http.StatusNotFound, MySQLErrorMessage)
	}
	return New(err, http.StatusBadGateway, MySQLErrorMessage)
}

// WrapAMQP maps broker publish/confirm errors to AppError.
func WrapAMQP(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, AMQPErrorMessage)
}
