package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/repository"
	"github.com/Domenick1991/cinema/internal/service/booking"
	"github.com/Domenick1991/cinema/internal/service/cart"
	"github.com/Domenick1991/cinema/internal/service/history"
	"github.com/gin-gonic/gin"
)

// statusFor maps service errors onto HTTP statuses. Failed writes are checked
// first since they wrap whatever the data service returned.
func statusFor(err error) int {
	var statusErr *repository.StatusError
	switch {
	case errors.Is(err, booking.ErrSubmissionFailed),
		errors.Is(err, cart.ErrCheckoutFailed):
		return http.StatusBadGateway

	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, booking.ErrSessionNotFound),
		errors.Is(err, booking.ErrWorkflowNotFound),
		errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, cart.ErrComboNotFound),
		errors.Is(err, history.ErrTicketNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrInvalidVariant),
		errors.Is(err, booking.ErrUnknownSeat),
		errors.Is(err, booking.ErrNoSeatsSelected),
		errors.Is(err, booking.ErrCustomerDetailsRequired),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrCustomerDetailsRequired):
		return http.StatusBadRequest

	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrSubmissionInProgress),
		errors.Is(err, booking.ErrSeatsTaken),
		errors.Is(err, booking.ErrSessionBusy),
		errors.Is(err, cart.ErrCheckoutInProgress),
		errors.Is(err, history.ErrTicketNotCancellable):
		return http.StatusConflict

	case errors.As(err, &statusErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func abort(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
