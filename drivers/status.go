package drivers

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Status is the board status code. It implements error so it can be
// wrapped and recovered with StatusOf.
type Status uint8

const (
	StatusOK                   Status = 0x00
	StatusErr                  Status = 0x01
	StatusErrDeviceNotDetected Status = 0x02
	StatusErrSoftVersion       Status = 0x03
	StatusErrParameter         Status = 0x04
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "everything ok"
	case StatusErr:
		return "unexpected error"
	case StatusErrDeviceNotDetected:
		return "device not detected"
	case StatusErrSoftVersion:
		return "unsupported board firmware version"
	case StatusErrParameter:
		return "parameter error"
	}
	return fmt.Sprintf("unknown status 0x%02x", uint8(s))
}

func (s Status) Error() string {
	return s.String()
}

// StatusOf extracts the Status carried by err. A nil error is StatusOK,
// an error without a Status is StatusErr. For combined errors the last one wins.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	if errs := multierr.Errors(err); len(errs) > 1 {
		return StatusOf(errs[len(errs)-1])
	}
	if s, ok := errors.Cause(err).(Status); ok {
		return s
	}
	return StatusErr
}

// statusError keeps the transport failure next to the Status it was mapped to.
type statusError struct {
	status Status
	cause  error
}

func (se *statusError) Error() string {
	return fmt.Sprintf("%s: %v", se.status, se.cause)
}

// Cause returns the Status so errors.Cause stops at the board code.
func (se *statusError) Cause() error {
	return se.status
}

func (se *statusError) Unwrap() error {
	return se.cause
}
