package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/stagedoor/boxoffice/internal/ledger"
)

// errorEnvelope is the JSON body of every failed request. Code carries
// the same stable taxonomy string the CLI prints, so clients on either
// surface can branch on one vocabulary.
type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// apiError renders an engine failure with the HTTP status its ledger
// code maps to.
func apiError(c echo.Context, err error) error {
	code := ledger.Code(err)
	return c.JSON(httpStatus(code), errorEnvelope{Error: err.Error(), Code: code})
}

// badRequest renders a transport-level rejection: malformed body, bad id
// in the path, missing identity header. These never reach the engine.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorEnvelope{
		Error: msg,
		Code:  ledger.CodeInvalidParameters,
	})
}

// httpStatus maps a ledger code onto an HTTP status. Expiry is a request
// defect (the caller asked for a height in the past), state conflicts
// are 409, and payment shortfalls get the underused 402.
func httpStatus(code string) int {
	switch code {
	case ledger.CodeNotFound:
		return http.StatusNotFound
	case ledger.CodeInvalidParameters, ledger.CodeEventExpired:
		return http.StatusBadRequest
	case ledger.CodeEventNotActive, ledger.CodeSoldOut, ledger.CodeTransferNotAllowed:
		return http.StatusConflict
	case ledger.CodeInsufficientPayment, ledger.CodePaymentFailed:
		return http.StatusPaymentRequired
	case ledger.CodeNotTicketOwner:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// validationMessage flattens a validator error to one human line about
// the first failing field.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	ve := verrs[0]
	switch ve.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", ve.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", ve.Field(), ve.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", ve.Field(), ve.Param())
	default:
		return fmt.Sprintf("%s is invalid", ve.Field())
	}
}
