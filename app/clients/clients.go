// Package clients calls the shop's peer services over HTTP. Every failure is
// returned as an *apperr.Error: the peer's status and {"error"} message are
// mapped back onto the taxonomy, and a peer that cannot be reached is
// KindUnavailable.
package clients

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	shophttp "github.com/shashiranjanraj/kashvi-shop/pkg/http"
	"github.com/shashiranjanraj/kashvi-shop/pkg/response"
)

// DefaultTimeout applies when a client is built with a zero timeout.
const DefaultTimeout = 5 * time.Second

type peer struct {
	name    string
	baseURL string
	timeout time.Duration
}

func newPeer(name, baseURL string, timeout time.Duration) peer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return peer{name: name, baseURL: baseURL, timeout: timeout}
}

func (p peer) url(path string) string { return p.baseURL + path }

// send fires req once and maps the outcome onto apperr.
func (p peer) send(req *shophttp.Request) (*shophttp.Response, error) {
	resp, err := req.Timeout(p.timeout).Send()
	if err != nil {
		return nil, apperr.Unavailable(p.name+" unavailable", err)
	}
	if !resp.OK() {
		return resp, apperr.FromStatus(resp.StatusCode, response.DecodeError(resp.Raw))
	}
	return resp, nil
}

// decode unmarshals a 2xx body; garbage from a peer counts as unavailable.
func (p peer) decode(resp *shophttp.Response, dest any) error {
	if err := resp.JSON(dest); err != nil {
		return apperr.Unavailable(p.name+" unavailable", fmt.Errorf("%s returned an unreadable body: %w", p.name, err))
	}
	return nil
}
