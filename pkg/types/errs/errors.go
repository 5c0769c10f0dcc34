package errs

import "errors"

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrInvalidDirectory = errors.New("invalid directory path")
	ErrScanInProgress   = errors.New("scan already in progress")
)
