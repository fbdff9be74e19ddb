// api/controller/gateway_controller.go
package controller

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

// GatewayController forwards /<service>/<path> to the named backend
// service when the caller presents the gateway key.
type GatewayController struct {
	isGatewayKey func(string) bool
	proxies      map[string]*httputil.ReverseProxy
}

func NewGatewayController(services map[string]string, isGatewayKey func(string) bool) (*GatewayController, error) {
	proxies := make(map[string]*httputil.ReverseProxy, len(services))
	for name, rawURL := range services {
		target, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid URL for service %s: %w", name, err)
		}
		proxies[name] = newProxy(name, target)
	}
	return &GatewayController{isGatewayKey: isGatewayKey, proxies: proxies}, nil
}

func newProxy(name string, target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.Out.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("Gateway could not reach service",
				zap.String("service", name),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"error":"could not reach service %s"}`, name)
		},
	}
}

// RegisterRoutes registers the catch-all proxy route
func (gc *GatewayController) RegisterRoutes(r gin.IRouter) {
	r.Any("/:service/*path", gc.Forward)
}

func (gc *GatewayController) Forward(c *gin.Context) {
	name := c.Param("service")
	proxy, ok := gc.proxies[name]
	if !ok {
		util.RespondWithError(c, http.StatusNotFound, "Service not found", fleet_errors.ErrUnknownService)
		return
	}

	if !gc.isGatewayKey(c.GetHeader("X-API-Key")) {
		util.RespondWithError(c, http.StatusForbidden, "Access denied: invalid API key", fleet_errors.ErrForbidden)
		return
	}

	req := c.Request.Clone(c.Request.Context())
	req.URL.Path = c.Param("path")
	req.URL.RawPath = ""
	proxy.ServeHTTP(c.Writer, req)
}
