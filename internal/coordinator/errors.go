package coordinator

import (
	"fmt"
	"strings"

	"go-stockctl/internal/client"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	// ErrInFlight is returned when a control is submitted again while its
	// previous submit is still pending.
	ErrInFlight = errors.New("action already in progress")

	ErrPurchaseLocked = errors.New("purchase is locked for editing")
)

const lockedMessage = "Editing is locked because some of the purchased stock has already been sold."

// ValidationError is a pre-flight rejection; nothing was sent.
type ValidationError struct {
	Field string
	Rule  string
	Param string
}

func (e *ValidationError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("%s failed %s", e.Field, e.Rule)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: strings.ToLower(fe.Field()), Rule: fe.Tag(), Param: fe.Param()}
	}
	return errors.Wrap(err, "validate input")
}

// UserMessage is what to show for a failed mutation: the server's detail,
// the local rule that failed, or fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var se *client.ServerError
	if errors.As(err, &se) {
		if detail, ok := se.ServerDetail(); ok {
			return detail
		}
		return fallback
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if errors.Is(err, ErrPurchaseLocked) {
		return lockedMessage
	}
	if errors.Is(err, ErrInFlight) {
		return ErrInFlight.Error()
	}
	return fallback
}
