package logistics

import "errors"

var (
	ErrRecordNotFound = errors.New("logistics record not found")
	ErrRecordExists   = errors.New("logistics record already exists for order")
)
