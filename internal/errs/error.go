package errs

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTxNotFound         = errors.New("borrow record not found")
	ErrOutOfStock         = errors.New("book is out of stock")
	ErrAlreadyBorrowed    = errors.New("you have already borrowed this book")
	ErrAlreadyReturned    = errors.New("book has already been returned")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("you are not allowed to access this resource")
)
