package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/angelofallars/hyperinvoice/pkg/invoiceapi"
)

// apiKeyRequired rejects requests without the configured key. With no key
// configured the service is open.
func (a *API) apiKeyRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.settings.APIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(invoiceapi.HeaderAPIKey)
		if subtle.ConstantTimeCompare([]byte(key), []byte(a.settings.APIKey)) != 1 {
			jsonError(w, r, http.StatusUnauthorized, "invalid api key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
