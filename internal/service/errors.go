package service

import "errors"

// Failure kinds shared by the auth and content services. Callers map
// them to HTTP responses with errors.Is; wrapped messages carry the
// detail.
var (
	ErrValidation         = errors.New("invalid input")
	ErrDuplicateUser      = errors.New("user name already taken")
	ErrNotFound           = errors.New("no results returned")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrPersistence        = errors.New("storage failure")
	ErrUpload             = errors.New("image upload failed")
)
