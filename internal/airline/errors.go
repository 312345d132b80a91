package airline

import (
	"fmt"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/errs"
)

var (
	ErrFlightNotFound    = fmt.Errorf("%w: flight", errs.ErrNotFound)
	ErrPassengerNotFound = fmt.Errorf("%w: passenger", errs.ErrNotFound)

	ErrInvalidFlightNumber = fmt.Errorf("%w: flight number is required", errs.ErrValidation)
	ErrDuplicateFlight     = fmt.Errorf("%w: duplicate flight number", errs.ErrValidation)
	ErrNilFlight           = fmt.Errorf("%w: flight is required", errs.ErrValidation)
	ErrNilPassenger        = fmt.Errorf("%w: passenger is required", errs.ErrValidation)
	ErrUnknownSeat         = fmt.Errorf("%w: unknown seat", errs.ErrValidation)
	ErrNotOnFlight         = fmt.Errorf("%w: passenger is not on this flight", errs.ErrValidation)

	ErrPassengerAttached = fmt.Errorf("%w: passenger already belongs to a flight", errs.ErrConflict)
	ErrAlreadySeated     = fmt.Errorf("%w: passenger already has a seat", errs.ErrConflict)
	ErrNotSeated         = fmt.Errorf("%w: passenger has no seat", errs.ErrConflict)
)
