// Package upload exposes the cleaning pipelines as HTTP endpoints: a browser
// posts an export file plus a few form fields and gets the cleaned CSV back.
package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jcallahan/adscrub/internal/domain"
	"github.com/jcallahan/adscrub/internal/export"
	"github.com/jcallahan/adscrub/internal/pipeline"
)

const maxUploadBytes = 32 << 20

// Handler serves the restaurant and gym cleaning endpoints.
type Handler struct {
	service *pipeline.Service
	writer  *export.Writer
	log     *zap.Logger
}

func NewHandler(service *pipeline.Service, writer *export.Writer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, writer: writer, log: log}
}

// Restaurant handles POST /clean/restaurant with form fields data (file),
// city, state, output_name.
func (h *Handler) Restaurant() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		form, ok := h.readForm(w, r)
		if !ok {
			return
		}
		city := strings.TrimSpace(r.FormValue("city"))
		state := strings.TrimSpace(r.FormValue("state"))
		if city == "" || state == "" {
			http.Error(w, "city and state are required", http.StatusBadRequest)
			return
		}

		events, summary, err := h.service.CleanRestaurant(r.Context(), pipeline.RestaurantRequest{
			FileName: form.fileName,
			Payload:  form.payload,
			City:     city,
			State:    state,
		})
		if err != nil {
			h.writePipelineError(w, form.runID, err)
			return
		}
		h.respondCSV(w, form, events, domain.VariantRestaurant, summary)
	})
}

// Gym handles POST /clean/gym with form fields data (file), value (flat
// monetary amount per sign-up), output_name.
func (h *Handler) Gym() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		form, ok := h.readForm(w, r)
		if !ok {
			return
		}
		rawValue := strings.TrimSpace(r.FormValue("value"))
		if rawValue == "" {
			http.Error(w, "value is required", http.StatusBadRequest)
			return
		}
		value, err := decimal.NewFromString(rawValue)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid value: %v", err), http.StatusBadRequest)
			return
		}

		events, summary, err := h.service.CleanGym(r.Context(), pipeline.GymRequest{
			FileName: form.fileName,
			Payload:  form.payload,
			Value:    value,
		})
		if err != nil {
			h.writePipelineError(w, form.runID, err)
			return
		}
		h.respondCSV(w, form, events, domain.VariantGym, summary)
	})
}

type uploadForm struct {
	runID      uuid.UUID
	fileName   string
	outputName string
	payload    []byte
}

// readForm validates the parts every endpoint shares: the uploaded file and
// the output name. Missing either is a 400 before any processing starts.
func (h *Handler) readForm(w http.ResponseWriter, r *http.Request) (uploadForm, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return uploadForm{}, false
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return uploadForm{}, false
	}

	file, header, err := r.FormFile("data")
	if err != nil {
		http.Error(w, "no file uploaded", http.StatusBadRequest)
		return uploadForm{}, false
	}
	defer file.Close()

	outputName := strings.TrimSpace(r.FormValue("output_name"))
	if outputName == "" {
		http.Error(w, "output_name is required", http.StatusBadRequest)
		return uploadForm{}, false
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return uploadForm{}, false
	}

	return uploadForm{
		runID:      uuid.New(),
		fileName:   header.Filename,
		outputName: outputName,
		payload:    payload,
	}, true
}

// writePipelineError maps pipeline failures to the right surface: a broken
// totals invariant is a 500 carrying both totals, everything else is bad
// input.
func (h *Handler) writePipelineError(w http.ResponseWriter, runID uuid.UUID, err error) {
	var mismatch *pipeline.TotalMismatchError
	if errors.As(err, &mismatch) {
		h.log.Error("totals invariant violated",
			zap.String("run_id", runID.String()),
			zap.String("baseline", mismatch.Baseline.StringFixed(2)),
			zap.String("final", mismatch.Final.StringFixed(2)),
		)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.log.Warn("clean run rejected", zap.String("run_id", runID.String()), zap.Error(err))
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (h *Handler) respondCSV(w http.ResponseWriter, form uploadForm, events []domain.Event, variant domain.Variant, summary pipeline.Summary) {
	path, err := h.writer.Write(events, variant, form.outputName)
	if err != nil {
		h.log.Error("write export", zap.String("run_id", form.runID.String()), zap.Error(err))
		http.Error(w, "failed to write cleaned file", http.StatusInternalServerError)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		h.log.Error("open export", zap.String("run_id", form.runID.String()), zap.Error(err))
		http.Error(w, "failed to open cleaned file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	h.log.Info("clean run completed",
		zap.String("run_id", form.runID.String()),
		zap.String("variant", string(variant)),
		zap.Int("events", summary.Events),
		zap.String("total", summary.FinalTotal.StringFixed(2)),
	)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", form.outputName+".csv"))
	if _, err := io.Copy(w, f); err != nil {
		h.log.Warn("stream export", zap.String("run_id", form.runID.String()), zap.Error(err))
	}
}
