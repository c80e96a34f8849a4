package controller

import (
	"net/http"

	"github.com/go-jose/go-jose/v4/json"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// cached serves a response from the app cache when present, otherwise calls
// compute, caches the encoded result and writes it.
func (c *Controller) cached(w http.ResponseWriter, r *http.Request, key string, compute func() (interface{}, error)) {
	ctx := r.Context()

	if c.App.Cache != nil {
		if payload, ok := c.App.Cache.Get(ctx, key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(payload)
			return
		}
	}

	result, err := compute()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode failed")
		return
	}

	if c.App.Cache != nil {
		c.App.Cache.Set(ctx, key, encoded)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(encoded)
}
