package errs

import "errors"

var ErrNotFound = errors.New("not found")

var ErrAlreadyExists = errors.New("already exists")

var ErrDB = errors.New("database error")

var ErrInsufficientHolding = errors.New("not enough stock to sell")

var ErrInvalidOrder = errors.New("invalid order")

var ErrInvalidCredentials = errors.New("incorrect password or email")

var ErrInvalidToken = errors.New("invalid token")
