package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Playback errors
	ErrNoTrack           = fmt.Errorf("no track loaded")
	ErrUnsupportedTrack  = fmt.Errorf("unsupported track reference")
	ErrDecodeFailed      = fmt.Errorf("audio decode failed")
	ErrDeviceUnavailable = fmt.Errorf("audio device unavailable")

	// Storage errors
	ErrStoreUnavailable = fmt.Errorf("session store unavailable")
	ErrCorruptEntry     = fmt.Errorf("corrupt session entry")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
