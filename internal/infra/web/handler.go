package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rodrigoasouza93/cep-form/internal/dto"
	"github.com/rodrigoasouza93/cep-form/internal/form"
	"github.com/rodrigoasouza93/cep-form/internal/storage"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type Webserver struct {
	OTELTracer trace.Tracer
	Controller *form.Controller
	Gatherer   prometheus.Gatherer
	Logger     zerolog.Logger
	sessions   *sessions
}

func NewServer(otelTracer trace.Tracer, controller *form.Controller, open storage.Opener, sessionTTL time.Duration, gatherer prometheus.Gatherer, logger zerolog.Logger) *Webserver {
	return &Webserver{
		OTELTracer: otelTracer,
		Controller: controller,
		Gatherer:   gatherer,
		Logger:     logger,
		sessions:   newSessions(open, sessionTTL),
	}
}

func (we *Webserver) CreateServer() *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logger)
	router.Use(middleware.Timeout(60 * time.Second))
	if we.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(we.Gatherer, promhttp.HandlerOpts{}))
	}
	router.Route("/form", func(r chi.Router) {
		r.Get("/", we.loadHandler)
		r.Get("/state", we.stateHandler)
		r.Post("/keypress", we.keyPressHandler)
		r.Post("/keyup", we.keyUpHandler)
		r.Post("/message/close", we.closeMessageHandler)
		r.Post("/submit", we.submitHandler)
	})
	return router
}

// loadHandler is a page load: a fresh form is built and filled from the
// session's stored address.
func (we *Webserver) loadHandler(w http.ResponseWriter, r *http.Request) {
	_, span := we.startSpan(r, "LOAD-FORM")
	defer span.End()

	sess, err := we.sessions.get(w, r)
	if err != nil {
		we.internalError(w, r, err)
		return
	}
	page := form.NewContext(sess.store)
	we.Controller.RestoreOnLoad(page)

	sess.mu.Lock()
	sess.page = page
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, output(page))
}

func (we *Webserver) stateHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := we.page(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, output(page))
}

func (we *Webserver) keyPressHandler(w http.ResponseWriter, r *http.Request) {
	var input dto.KeyPressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorOutput{Message: err.Error()})
		return
	}
	if utf8.RuneCountInString(input.Key) != 1 {
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorOutput{Message: "key must be a single character"})
		return
	}
	key, _ := utf8.DecodeRuneInString(input.Key)
	writeJSON(w, http.StatusOK, dto.KeyPressOutput{Accepted: we.Controller.OnKeyPress(key)})
}

func (we *Webserver) keyUpHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := we.startSpan(r, "KEYUP")
	defer span.End()

	var input dto.KeyUpInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorOutput{Message: err.Error()})
		return
	}
	page, ok := we.page(w, r)
	if !ok {
		return
	}
	triggered := we.Controller.OnKeyUp(ctx, page, input.Value)
	span.SetAttributes(attribute.Bool("lookup.triggered", triggered))
	writeJSON(w, http.StatusOK, output(page))
}

func (we *Webserver) closeMessageHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := we.page(w, r)
	if !ok {
		return
	}
	we.Controller.CloseMessage(page)
	writeJSON(w, http.StatusOK, output(page))
}

func (we *Webserver) submitHandler(w http.ResponseWriter, r *http.Request) {
	_, span := we.startSpan(r, "SUBMIT")
	defer span.End()

	page, ok := we.page(w, r)
	if !ok {
		return
	}
	we.Controller.OnSubmit(page)
	writeJSON(w, http.StatusAccepted, output(page))
}

// page returns the current form of the caller, loading one first when the
// session has none yet.
func (we *Webserver) page(w http.ResponseWriter, r *http.Request) (*form.Context, bool) {
	sess, err := we.sessions.get(w, r)
	if err != nil {
		we.internalError(w, r, err)
		return nil, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.page == nil {
		sess.page = form.NewContext(sess.store)
		we.Controller.RestoreOnLoad(sess.page)
	}
	return sess.page, true
}

func (we *Webserver) startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return we.OTELTracer.Start(ctx, name)
}

func (we *Webserver) internalError(w http.ResponseWriter, r *http.Request, err error) {
	we.Logger.Error().Err(err).
		Str("path", r.URL.Path).
		Str("request_id", middleware.GetReqID(r.Context())).
		Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, dto.ErrorOutput{Message: "internal error"})
}

func output(page *form.Context) dto.FormOutput {
	snap := page.Snapshot()
	return dto.FormOutput{
		Fields: dto.FieldsOutput{
			PostalCode: snap.Fields.PostalCode,
			Street:     snap.Fields.Street,
			City:       snap.Fields.City,
			District:   snap.Fields.District,
			StateCode:  snap.Fields.StateCode,
			AreaCode:   snap.Fields.AreaCode,
		},
		LoaderVisible:  snap.LoaderVisible,
		MessageVisible: snap.MessageVisible,
		OverlayVisible: snap.OverlayVisible,
		Message:        snap.Message,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
