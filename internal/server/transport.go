package server

import (
	"net/http"
	"net/http/httptest"
)

// Transport is an http.RoundTripper that hands each request to an
// http.Handler in-process.
type Transport struct {
	handler http.Handler
}

func NewTransport(handler http.Handler) *Transport {
	return &Transport{handler: handler}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	// Handlers see server-side requests, which carry RequestURI.
	serverReq := req.Clone(req.Context())
	serverReq.RequestURI = req.URL.RequestURI()
	if serverReq.Body == nil {
		serverReq.Body = http.NoBody
	}

	rec := httptest.NewRecorder()
	t.handler.ServeHTTP(rec, serverReq)

	resp := rec.Result()
	resp.Request = req
	return resp, nil
}
