package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"techtreck/internal/adapter/api"
	"techtreck/internal/domain"
	"techtreck/internal/timefmt"
	"techtreck/internal/usecase"
)

const maxBodyBytes = 1 << 20

type ctxKey int

const requestIDKey ctxKey = iota

// HTTPServer returns a configured http.Server exposing the REST API.
// Call ListenAndServe on the returned server in a goroutine and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.log.Info("http api server configured", slog.String("addr", addr))
	return srv
}

// Handler returns the API routes wrapped in request id and logging middleware.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/logs", a.listLogs)
	mux.HandleFunc("POST /api/logs", a.createLog)
	mux.HandleFunc("GET /api/logs/{id}", a.getLog)
	mux.HandleFunc("PUT /api/logs/{id}", a.updateLog)
	mux.HandleFunc("DELETE /api/logs/{id}", a.deleteLog)

	mux.HandleFunc("GET /api/time-entries", a.listTimeEntries)
	mux.HandleFunc("POST /api/time-entries", a.createTimeEntry)
	mux.HandleFunc("GET /api/time-entries/{id}", a.getTimeEntry)
	mux.HandleFunc("PUT /api/time-entries/{id}", a.updateTimeEntry)
	mux.HandleFunc("DELETE /api/time-entries/{id}", a.deleteTimeEntry)

	mux.HandleFunc("GET /api/pto-days", a.listPTODays)
	mux.HandleFunc("POST /api/pto-days", a.submitPTO)
	mux.HandleFunc("GET /api/pto-days/balance", a.ptoBalance)
	mux.HandleFunc("GET /api/pto-days/{id}", a.getPTO)
	mux.HandleFunc("DELETE /api/pto-days/{id}", a.deletePTO)
	mux.HandleFunc("PUT /api/pto-days/{id}/status", a.reviewPTO)

	mux.HandleFunc("POST /api/chat", a.chat)

	return requestIDMiddleware(loggingMiddleware(a.log, mux))
}

func (a *App) listLogs(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	order, err := usecase.ParseOrder(r.URL.Query().Get("order"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	items, err := a.timeline.Run(r.Context(), rng, order)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]api.LogDTO, 0, len(items))
	for _, it := range items {
		out = append(out, api.FromLogEntry(it))
	}
	writeData(w, http.StatusOK, out)
}

func (a *App) createLog(w http.ResponseWriter, r *http.Request) {
	dto, ok := decodeData[api.LogDTO](a, w, r)
	if !ok {
		return
	}
	rec, err := dto.Record()
	if err != nil {
		a.writeError(w, r, badRequest(err))
		return
	}
	created, err := a.logs.CreateLog(r.Context(), rec)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, api.FromLogRecord(created))
}

func (a *App) getLog(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	rec, err := a.logs.GetLog(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, api.FromLogRecord(rec))
}

func (a *App) updateLog(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	dto, ok := decodeData[api.LogDTO](a, w, r)
	if !ok {
		return
	}
	rec, err := dto.Record()
	if err != nil {
		a.writeError(w, r, badRequest(err))
		return
	}
	updated, err := a.logs.UpdateLog(r.Context(), id, rec)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, api.FromLogRecord(updated))
}

func (a *App) deleteLog(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.logs.DeleteLog(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) listTimeEntries(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	entries, err := a.entries.ListTimeEntries(r.Context(), rng)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]api.TimeEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, api.FromTimeEntry(e))
	}
	writeData(w, http.StatusOK, out)
}

func (a *App) createTimeEntry(w http.ResponseWriter, r *http.Request) {
	dto, ok := decodeData[api.TimeEntryDTO](a, w, r)
	if !ok {
		return
	}
	e, err := dto.Domain()
	if err != nil {
		a.writeError(w, r, badRequest(err))
		return
	}
	created, err := a.entries.CreateTimeEntry(r.Context(), e)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, api.FromTimeEntry(created))
}

func (a *App) getTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	e, err := a.entries.GetTimeEntry(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, api.FromTimeEntry(e))
}

func (a *App) updateTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	dto, ok := decodeData[api.TimeEntryDTO](a, w, r)
	if !ok {
		return
	}
	e, err := dto.Domain()
	if err != nil {
		a.writeError(w, r, badRequest(err))
		return
	}
	updated, err := a.entries.UpdateTimeEntry(r.Context(), id, e)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, api.FromTimeEntry(updated))
}

func (a *App) deleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.entries.DeleteTimeEntry(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) listPTODays(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	days, err := a.pto.ListPTODays(r.Context(), rng)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]api.PTODTO, 0, len(days))
	for _, p := range days {
		out = append(out, api.FromPTO(p))
	}
	writeData(w, http.StatusOK, out)
}

func (a *App) submitPTO(w http.ResponseWriter, r *http.Request) {
	dto, ok := decodeData[api.PTODTO](a, w, r)
	if !ok {
		return
	}
	p, err := dto.Domain()
	if err != nil {
		a.writeError(w, r, badRequest(err))
		return
	}
	created, err := a.pto.SubmitPTO(r.Context(), p)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, api.FromPTO(created))
}

func (a *App) ptoBalance(w http.ResponseWriter, r *http.Request) {
	b, err := a.pto.Balance(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, api.FromBalance(b))
}

func (a *App) getPTO(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	p, err := a.pto.GetPTO(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, api.FromPTO(p))
}

func (a *App) deletePTO(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.pto.DeletePTO(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) reviewPTO(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	dto, ok := decodeData[api.StatusDTO](a, w, r)
	if !ok {
		return
	}
	p, err := a.pto.ReviewPTO(r.Context(), id, dto.Value())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, api.FromPTO(p))
}

func (a *App) chat(w http.ResponseWriter, r *http.Request) {
	dto, ok := decodeData[api.ChatRequest](a, w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(dto.Message) == "" {
		a.writeError(w, r, badRequest(errors.New("message is required")))
		return
	}
	ctx := r.Context()
	if t := a.cfg.Chatbot.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	answer, err := a.bot.FindAnswer(ctx, dto.Message)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, api.ChatReply{Answer: answer})
}

func (a *App) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		a.writeError(w, r, badRequest(fmt.Errorf("invalid id %q", r.PathValue("id"))))
		return 0, false
	}
	return id, true
}

// decodeData reads a {"data": ...} body into T.
func decodeData[T any](a *App, w http.ResponseWriter, r *http.Request) (T, bool) {
	var env api.Envelope[T]
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&env); err != nil {
		a.writeError(w, r, badRequest(fmt.Errorf("malformed request body: %v", err)))
		return env.Data, false
	}
	return env.Data, true
}

// parseRange reads the optional startDate and endDate query parameters.
func parseRange(r *http.Request) (domain.DateRange, error) {
	q := r.URL.Query()
	var rng domain.DateRange
	if v := q.Get("startDate"); v != "" {
		d, err := timefmt.ParseDay(v)
		if err != nil {
			return rng, badRequest(err)
		}
		rng.From = d
	}
	if v := q.Get("endDate"); v != "" {
		d, err := timefmt.ParseDay(v)
		if err != nil {
			return rng, badRequest(err)
		}
		rng.To = d
	}
	if !rng.From.IsZero() && !rng.To.IsZero() && rng.From.After(rng.To) {
		return rng, badRequest(errors.New("start date must not be after end date"))
	}
	return rng, nil
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Envelope[any]{Data: data})
}

// writeError maps use case sentinels to HTTP statuses.
func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, name := http.StatusInternalServerError, "InternalServerError"
	message := "internal server error"
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		status, name, message = http.StatusBadRequest, "ValidationError", err.Error()
	case errors.Is(err, usecase.ErrNotFound):
		status, name, message = http.StatusNotFound, "NotFoundError", err.Error()
	case errors.Is(err, usecase.ErrConflict):
		status, name, message = http.StatusConflict, "ConflictError", err.Error()
	case errors.Is(err, usecase.ErrFetchLogs):
		message = usecase.ErrFetchLogs.Error()
	}
	if status == http.StatusInternalServerError {
		a.log.Error("request failed",
			slog.String("request_id", requestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Envelope[any]{
		Error: &api.ErrorBody{Status: status, Name: name, Message: message},
	})
}

// requestIDMiddleware propagates or assigns an X-Request-ID.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware provides basic request logging.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.String("request_id", requestID(r.Context())),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("dur", time.Since(start)),
		)
	})
}
