package healthcheck

import (
	"encoding/json"
	"net/http"
)

type status struct {
	Status string `json:"status"`
}

// Self reports that the process is serving requests.
func Self(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status{Status: "ok"})
}
