package transport

/*------------------------------------------------------------------
 *
 * Purpose:	Discover a running scsynth server advertised over
 *		mDNS/DNS-SD, so cmd/scsend can avoid a hardcoded host:port
 *		on a local network.
 *
 * Description:	Mirror image of the teacher's dns_sd.go: that file
 *		*advertises* a KISS-over-TCP service; this one *browses*
 *		for one instead, using the same pure-Go
 *		github.com/brutella/dnssd package.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"time"

	"github.com/brutella/dnssd"
)

// ServiceType is the DNS-SD service type this package looks for.
// scsynth itself does not announce this; a companion service (or a
// thin wrapper process) is expected to advertise it using the same
// library in server mode.
const ServiceType = "_scsynth._udp"

// Discover browses the local network for up to timeout for one
// instance of ServiceType and returns its resolved host and port. It
// returns the first result found; callers that need every instance
// should browse with dnssd.LookupType directly.
func Discover(ctx context.Context, timeout time.Duration) (host string, port int, err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	found := make(chan dnssd.BrowseEntry, 1)

	addFn := func(e dnssd.BrowseEntry) {
		select {
		case found <- e:
		default:
		}
	}
	rmvFn := func(dnssd.BrowseEntry) {}

	err = dnssd.LookupType(ctx, ServiceType, addFn, rmvFn)
	if err != nil && ctx.Err() == nil {
		return "", 0, fmt.Errorf("transport: discover %s: %w", ServiceType, err)
	}

	select {
	case e := <-found:
		if len(e.IPs) == 0 {
			return "", 0, fmt.Errorf("transport: discovered %s with no resolved address", e.Name)
		}
		return e.IPs[0].String(), e.Port, nil
	default:
		return "", 0, fmt.Errorf("transport: no %s instance found within %s", ServiceType, timeout)
	}
}
