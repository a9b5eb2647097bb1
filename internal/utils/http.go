package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON serializes data to JSON and writes it with statusCode.
//
// A nil data or a 204 status writes no body. Pre-encoded json.RawMessage
// values are written as is. If marshaling fails, it responds with 500 and
// returns a wrapped error.
//
//	WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	if data == nil || statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return 0, nil
	}

	var (
		jsonData []byte
		err      error
	)
	if raw, ok := data.(json.RawMessage); ok {
		jsonData = raw
	} else if jsonData, err = json.Marshal(data); err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}
