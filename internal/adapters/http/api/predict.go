package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/vokasi/internal/domain/model"
	"github.com/okian/vokasi/pkg/logger"
	"github.com/okian/vokasi/pkg/metrics"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 14

// Predictor is the dependency of PredictHandler.
type Predictor interface {
	Predict(ctx context.Context, rec model.InputRecord) (model.PredictionResult, error)
}

// PredictHandler serves JSON predictions.
type PredictHandler struct {
	deps Predictor
	log  logger.Logger
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps Predictor, log logger.Logger) *PredictHandler {
	return &PredictHandler{deps: deps, log: log}
}

type predictResponse struct {
	RequestID string         `json:"request_id"`
	Value     float64        `json:"value"`
	Formatted string         `json:"formatted"`
	Features  []model.Column `json:"features"`
	Dropped   []string       `json:"dropped_columns,omitempty"`
}

// HandlePredict handles POST /api/predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var in predictionInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		metrics.RecordPrediction(metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := in.validate(); err != nil {
		metrics.RecordPrediction(metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Predict(r.Context(), in.record())
	if err != nil {
		// Details are logged by the service; the client gets a generic failure.
		h.log.Error(r.Context(), "predict request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "prediction_failed", NewKind(op, ErrPredictionFail))
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{
		RequestID: res.RequestID,
		Value:     res.Value,
		Formatted: res.Formatted,
		Features:  res.Features.Columns(),
		Dropped:   res.Dropped,
	})
}
