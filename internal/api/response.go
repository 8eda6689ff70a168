package api

import (
	"encoding/json"
	"net/http"
)

// Resp is the envelope of every JSON response.
type Resp struct {
	OK   bool   `json:"ok"`
	Info string `json:"info,omitempty"`
	Data any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Resp) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Resp{OK: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, info string) {
	writeJSON(w, status, Resp{OK: false, Info: info})
}
