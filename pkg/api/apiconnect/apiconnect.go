// Package apiconnect wires the api messages to Connect handlers and clients.
//
// Each service gets a handler interface, a constructor that mounts it under
// "/budget.v1.<Service>/", a client interface with its constructor, and an
// Unimplemented handler to embed for forward compatibility.
package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
)

// packagePrefix prefixes every service name.
const packagePrefix = "budget.v1."

type route struct {
	procedure string
	handler   http.Handler
}

func unary[Req, Res any](
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) route {
	options := append([]connect.HandlerOption{connect.WithCodec(api.Codec())}, opts...)
	return route{procedure: procedure, handler: connect.NewUnaryHandler(procedure, fn, options...)}
}

// mount returns the service path and a handler dispatching on the full
// procedure path.
func mount(serviceName string, routes ...route) (string, http.Handler) {
	byPath := make(map[string]http.Handler, len(routes))
	for _, r := range routes {
		byPath[r.procedure] = r.handler
	}
	return "/" + serviceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := byPath[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	options := append([]connect.ClientOption{connect.WithCodec(api.Codec())}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, options...)
}

func unimplemented(procedure string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(procedure+" is not implemented"))
}
