// api/client/service_client.go
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/resilience"
)

const DefaultCallTimeout = 2 * time.Second

// ErrNotFound is returned when the dependency answers 404. It is not a
// dependency failure and does not trip the breaker.
var ErrNotFound = errors.New("resource not found")

// ServiceClient calls a sibling service with the internal service secret.
// Every call runs inside the breaker for this (service, dependency) pair.
type ServiceClient struct {
	baseURL       string
	internalToken string
	timeout       time.Duration
	httpClient    *http.Client
	breaker       *resilience.Breaker
}

func NewServiceClient(baseURL, internalToken string, timeout time.Duration, breaker *resilience.Breaker) *ServiceClient {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &ServiceClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		internalToken: internalToken,
		timeout:       timeout,
		httpClient:    &http.Client{},
		breaker:       breaker,
	}
}

// GetJSON decodes the body of GET <baseURL><path> into out. Transport
// errors and 5xx responses count as failures; a 404 returns ErrNotFound.
// Other non-200 answers are reported as unavailable without tripping the
// breaker.
func (c *ServiceClient) GetJSON(ctx context.Context, path string, out interface{}) error {
	var outcome error
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-API-Key", c.internalToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			outcome = ErrNotFound
			return nil
		case resp.StatusCode >= http.StatusInternalServerError:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
		case resp.StatusCode != http.StatusOK:
			// The dependency is up but refused us; not a breaker failure.
			outcome = fmt.Errorf("%w: %s returned %d", fleet_errors.ErrDependencyUnavailable, path, resp.StatusCode)
			return nil
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		logger.Warn("Dependency call failed",
			zap.String("circuit", c.breaker.Key()),
			zap.String("path", path),
			zap.Error(err))
		return err
	}
	return outcome
}
