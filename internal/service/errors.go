package service

import (
	"errors"

	"github.com/sebassmtz/backend-stockpro/internal/apierror"

	"gorm.io/gorm"
)

var (
	ErrCashRegisterNotFound = apierror.NotFound("Cash register not found")
	ErrTurnNotFound         = apierror.NotFound("Turn not found")
	ErrUserNotFound         = apierror.NotFound("User not found")

	ErrEmailNotFound      = apierror.BadRequest("The email does not exists")
	ErrInvalidPassword    = apierror.BadRequest("The password is invalid")
	ErrTurnEndBeforeStart = apierror.BadRequest("date_time_end must not be before date_time_start")

	ErrTurnAlreadyActive = apierror.Conflict("The cash register already has an active turn")
	ErrTurnAlreadyClosed = apierror.Conflict("The turn is already closed")
	ErrTurnClosed        = apierror.Conflict("The turn is closed")

	ErrInvalidCredentials = apierror.Unauthorized("Invalid credentials")
)

// notFound translates a missing-row error into the given domain error and
// passes every other store error through untouched.
func notFound(err error, target *apierror.Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
