// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package http

import "net/http"

// CheckHTTPMethod returns an [http.HandlerFunc] that is intended to be
// registered as the router's MethodNotAllowed handler via
// [chi.Mux.MethodNotAllowed].
//
// Chi's default behaviour is to respond with HTTP 405 Method Not Allowed
// whenever a request path matches a registered route but the HTTP method is
// not handled. A 405 confirms to a probing caller that the route exists.
// This handler responds with HTTP 404 Not Found instead, making an
// unsupported method indistinguishable from an unknown path.
//
// Chi only invokes the MethodNotAllowed handler after the path has matched
// and the method has not, so no route lookup is needed here; requests whose
// method IS registered never reach this handler.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod())
func CheckHTTPMethod() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}
}
