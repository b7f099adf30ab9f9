package domain

import "errors"

// Sentinel errors for load operations
var (
	// ErrConnectivity indicates the transport failed before a response arrived
	ErrConnectivity = errors.New("connectivity error")

	// ErrInvalidData indicates a non-2xx status, an empty body or an undecodable payload
	ErrInvalidData = errors.New("invalid data")

	// ErrInvalidImageData indicates the bytes do not decode as an image
	ErrInvalidImageData = errors.New("invalid image data")
)
