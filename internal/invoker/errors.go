package invoker

import (
	"errors"
	"fmt"
	"net"

	"github.com/aws/smithy-go"
)

// TransportError wraps a failure to reach the service endpoint.
type TransportError struct {
	Operation string
	Endpoint  string
	Region    string
	Err       error
}

func (e *TransportError) Error() string {
	host := ""
	var dnsErr *net.DNSError
	if errors.As(e.Err, &dnsErr) && dnsErr.Name != "" {
		host = fmt.Sprintf(" (could not resolve host %q)", dnsErr.Name)
	}
	return fmt.Sprintf("%s: name resolution failure for endpoint %s in region %q%s; check the region and endpoint settings: %v",
		e.Operation, e.Endpoint, e.Region, host, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError is an application-level failure returned by the service.
type ServiceError struct {
	Operation string
	Code      string
	Message   string
	Fault     string
	RequestID string
	Err       error
}

func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Operation, e.Code, e.Message)
	if e.RequestID != "" {
		msg += " (request id " + e.RequestID + ")"
	}
	return msg
}

func (e *ServiceError) Unwrap() error { return e.Err }

// classify converts a raw client error into the invoker's error surface.
func classify(op, endpoint, region string, err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &TransportError{Operation: op, Endpoint: endpoint, Region: region, Err: err}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		se := &ServiceError{
			Operation: op,
			Code:      apiErr.ErrorCode(),
			Message:   apiErr.ErrorMessage(),
			Fault:     apiErr.ErrorFault().String(),
			Err:       err,
		}
		var withID interface{ ServiceRequestID() string }
		if errors.As(err, &withID) {
			se.RequestID = withID.ServiceRequestID()
		}
		return se
	}

	return fmt.Errorf("%s: %w", op, err)
}
