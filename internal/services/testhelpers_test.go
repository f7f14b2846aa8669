package services

import (
	"net/http"
	"net/http/httptest"
)

func newRequestWithHeaders(headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}
