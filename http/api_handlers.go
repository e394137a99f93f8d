package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ckdcart/ml"
)

func RegisterAPIHandlers(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("POST /api/predict", h.handlePredict)
	mux.HandleFunc("GET /api/metrics", h.handleMetrics)
}

type predictResponse struct {
	ml.Diagnosis
	Features []float64 `json:"features"`
}

// handlePredict takes the form fields as JSON. Omitted fields keep the
// form defaults.
func (h *Handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	form := ml.DefaultPatientForm()
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	vector, err := ml.Encode(form.Coerce())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ml.ErrUnknownCategory) {
			status = http.StatusBadRequest
		}
		writeJSONError(w, status, err.Error())
		return
	}

	diagnosis, err := h.diagnose(vector)
	if err != nil {
		h.logger.Error("prediction failed", zap.Error(err), zap.String("request_id", GetRequestID(r.Context())))
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(predictResponse{
		Diagnosis: diagnosis,
		Features:  vector.Slice(),
	})
}

func (h *Handlers) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.counter.Snapshot())
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
