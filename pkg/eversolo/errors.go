package eversolo

import (
	"fmt"
)

// ConnectionError wraps transport-level failures talking to the device.
// The sync loop treats these as retryable.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("eversolo: connection error on %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a schema violation in a device payload,
// naming the missing or invalid field.
type MalformedResponseError struct {
	Field  string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("eversolo: malformed response: field %q %s", e.Field, e.Reason)
}

// UnknownModelError is returned by CapabilitiesFor when the model id is
// not in the capability table. Callers should fall back to
// DefaultCapabilities instead of aborting setup.
type UnknownModelError struct {
	Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("eversolo: unknown model %q", e.Model)
}

// UnsupportedCapabilityError rejects a command for a control surface the
// selected model does not have. Raised before any network call.
type UnsupportedCapabilityError struct {
	Model      string
	Capability string
}

func (e *UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("eversolo: model %s does not support %s", e.Model, e.Capability)
}

// HardwareUnavailableError reports a command for an output the model has
// but the device currently reports disabled (e.g. USB DAC with nothing
// attached).
type HardwareUnavailableError struct {
	Output string
}

func (e *HardwareUnavailableError) Error() string {
	return fmt.Sprintf("eversolo: output %s is present but disabled, requires hardware", e.Output)
}
