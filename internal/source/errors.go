package source

import "errors"

var (
	ErrInvalidCSV        = errors.New("invalid csv")
	ErrInvalidDocument   = errors.New("invalid dataset document")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrFileTooLarge      = errors.New("dataset file too large")
)
