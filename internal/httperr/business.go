package httperr

import "errors"

// BusinessError is a domain-rule failure carried up from a usecase or a
// transaction callback. The code matches the snake_case wire codes, so the
// handler picks the HTTP status without inspecting storage errors.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// IsBusiness reports whether err is a BusinessError with the given code.
func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
