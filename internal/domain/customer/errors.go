package customer

import "errors"

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerIDTaken  = errors.New("customer id already exists")
	ErrNotCreated       = errors.New("customer could not be created")
)
