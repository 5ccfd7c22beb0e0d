package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"syscall"

	"github.com/avask/termapi/internal/model"
)

// classify maps a transport failure onto the response error taxonomy. Order
// matters: context errors first, since a cancelled dial also looks like a
// net.OpError.
func classify(err error) (model.ErrorKind, string) {
	if err == nil {
		return model.ErrNone, ""
	}

	if errors.Is(err, context.Canceled) {
		return model.ErrCancelled, err.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.ErrTimedOut, err.Error()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.ErrTimedOut, err.Error()
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return model.ErrDNS, err.Error()
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return model.ErrConnectionRefused, err.Error()
	}

	if isTLSError(err) {
		return model.ErrTLS, err.Error()
	}

	return model.ErrTransport, err.Error()
}

func isTLSError(err error) bool {
	var (
		recordErr  tls.RecordHeaderError
		verifyErr  *tls.CertificateVerificationError
		unknownCA  x509.UnknownAuthorityError
		invalidErr x509.CertificateInvalidError
		hostErr    x509.HostnameError
	)
	return errors.As(err, &recordErr) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &unknownCA) ||
		errors.As(err, &invalidErr) ||
		errors.As(err, &hostErr)
}
