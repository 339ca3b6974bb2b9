//go:build e2e
// +build e2e

package e2e

import (
	"net"
	"net/http"
	"strings"
)

// The service under test is started with
// PRICING_UPSTREAM_BASE_URL=http://127.0.0.1:38084.
const pricingUpstreamMockAddr = "127.0.0.1:38084"

const upstreamMatrix = `{
  "PT": {
    "simple": {"monthly": {"price": 9.99, "displayPrice": "€9,99"}, "yearly": {"price": 99.9, "displayPrice": "€99,90"}},
    "business": {"monthly": {"price": 49.99, "displayPrice": "€49,99"}}
  },
  "US": {
    "simple": {"monthly": {"price": 9.99, "displayPrice": "$9.99"}, "yearly": {"price": 99.9, "displayPrice": "$99.90"}}
  }
}`

func startUpstreamMock() (*http.Server, error) {
	listener, err := net.Listen("tcp", pricingUpstreamMockAddr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/pricing/matrix", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstreamMatrix))
	})
	mux.HandleFunc("/api/pricing/region/", func(w http.ResponseWriter, r *http.Request) {
		region := strings.TrimPrefix(r.URL.Path, "/api/pricing/region/")
		if region != "US" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"planType":"simple","region":"US","price":{"monthly":9.99,"yearly":99.9},"displayPrice":"$9.99"}]`))
	})

	srv := &http.Server{Handler: mux}
	go func() {
		_ = srv.Serve(listener)
	}()
	return srv, nil
}
