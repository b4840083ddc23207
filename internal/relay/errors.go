package relay

import (
	"github.com/allisson/familykeys/internal/errors"
)

// ErrRelayUnavailable indicates the relay could not be reached or answered with an
// unexpected status.
var ErrRelayUnavailable = errors.Wrap(errors.ErrUnavailable, "relay unavailable")
