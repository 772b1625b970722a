package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"solwindx/client"
	"solwindx/datasource"
	"solwindx/models"
	"solwindx/report"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server is the backend-for-frontend of the forecast page
type Server struct {
	service  datasource.PredictionService
	sessions *SessionStore
	server   *http.Server
	logger   *zap.Logger
}

// NewServer creates a new API server
func NewServer(service datasource.PredictionService, sessions *SessionStore, port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router returns the routes without middleware
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealthCheck).Methods(http.MethodGet)

	r.HandleFunc("/api/sessions", s.handleCreateSession).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)

	sr := r.PathPrefix("/api/sessions/{id}").Subrouter()
	sr.HandleFunc("/locations", s.handleSearch).Methods(http.MethodGet)
	sr.HandleFunc("/featured", s.handleFeatured).Methods(http.MethodGet)
	sr.HandleFunc("/selection", s.handleSelect).Methods(http.MethodPut)
	sr.HandleFunc("/forecast", s.handleForecast).Methods(http.MethodPost)
	sr.HandleFunc("/view", s.handleView).Methods(http.MethodGet)

	return r
}

// Handler returns the routes wrapped with request IDs, access logging and CORS
func (s *Server) Handler() http.Handler {
	return withMiddleware(s.Router(), s.logger)
}

// Start begins the API server
func (s *Server) Start() error {
	s.logger.Info("starting API server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for active ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type sessionResponse struct {
	Session   string            `json:"session"`
	Locations []models.Location `json:"locations"`
	Featured  []models.Location `json:"featured"`
	Notices   []client.Notice   `json:"notices,omitempty"`
}

// handleCreateSession starts a page view and loads its locations
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	c := client.New(s.service, client.WithLogger(s.logger))
	session := s.sessions.Create(c)

	ctx, notices := client.CollectNotices(r.Context())
	locations := c.LoadLocations(ctx)
	writeJSON(w, http.StatusCreated, sessionResponse{
		Session:   session.ID,
		Locations: locations,
		Featured:  c.Featured(),
		Notices:   notices.Drain(),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(mux.Vars(r)["id"]) {
		writeError(w, http.StatusNotFound, "session not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSearch is filter-as-you-type over the session's locations
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	matches := session.Client.Search(r.URL.Query().Get("q"))
	if matches == nil {
		matches = []models.Location{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   r.URL.Query().Get("q"),
		"matches": matches,
	})
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"featured": session.Client.Featured(),
	})
}

type selectionRequest struct {
	City string `json:"city"`
	Mode string `json:"mode"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var body selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if body.City != "" {
		if err := session.Client.SelectLocationByName(body.City); err != nil {
			writeClientError(w, err, validationNotices(err))
			return
		}
	}
	if body.Mode != "" {
		if err := session.Client.SelectMode(models.Mode(body.Mode)); err != nil {
			writeClientError(w, err, validationNotices(err))
			return
		}
	}

	writeJSON(w, http.StatusOK, session.Client.Selection())
}

type forecastRequest struct {
	Mode            string    `json:"mode"`
	PanelArea       formValue `json:"panel_area"`
	PanelEfficiency formValue `json:"panel_efficiency"`
	NumTurbines     formValue `json:"num_turbines"`
	RotorDiameter   formValue `json:"rotor_diameter"`
}

type resultEnvelope struct {
	Mode    models.Mode           `json:"mode"`
	Result  client.ForecastResult `json:"result"`
	Summary report.Summary        `json:"summary"`
}

// handleForecast submits the form for one mode
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var body forecastRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	mode, err := models.ParseMode(body.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, client.MsgUnsupportedMode, nil)
		return
	}

	ctx, notices := client.CollectNotices(r.Context())
	sub, err := session.Client.SubmitTracked(ctx, mode, client.Inputs{
		PanelArea:       string(body.PanelArea),
		PanelEfficiency: string(body.PanelEfficiency),
		NumTurbines:     string(body.NumTurbines),
		RotorDiameter:   string(body.RotorDiameter),
	})
	if err != nil && sub.Result == nil {
		writeClientError(w, err, notices.Drain())
		return
	}
	if err != nil {
		s.logger.Warn("forecast rendered with errors", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"seq":     sub.Seq,
		"result":  envelope(sub.Result),
		"notices": notices.Drain(),
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	view := session.Client.View()
	response := map[string]interface{}{
		"selection": view.Selection,
		"seq":       view.Seq,
	}
	if view.Result != nil {
		response["result"] = envelope(view.Result)
	}
	writeJSON(w, http.StatusOK, response)
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"sessions":  s.sessions.Count(),
		"backend":   s.service.Name(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	session, ok := s.sessions.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "session not found", nil)
	}
	return session, ok
}

func envelope(result client.ForecastResult) resultEnvelope {
	return resultEnvelope{
		Mode:    result.Mode(),
		Result:  result,
		Summary: report.Summarize(result),
	}
}

// writeClientError maps client errors onto status codes
func writeClientError(w http.ResponseWriter, err error, notices []client.Notice) {
	var ve *client.ValidationError
	var te *client.TransportError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   ve.Message,
			"field":   ve.Field,
			"notices": notices,
		})
	case errors.Is(err, client.ErrSuperseded):
		writeError(w, http.StatusConflict, err.Error(), notices)
	case errors.As(err, &te):
		writeError(w, http.StatusBadGateway, te.Message(), notices)
	default:
		writeError(w, http.StatusInternalServerError, err.Error(), notices)
	}
}

// validationNotices is the notice a selection error raised
func validationNotices(err error) []client.Notice {
	var ve *client.ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	return []client.Notice{{Kind: client.NoticeValidation, Message: ve.Message}}
}

func writeError(w http.ResponseWriter, status int, message string, notices []client.Notice) {
	body := map[string]interface{}{"error": message}
	if len(notices) > 0 {
		body["notices"] = notices
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
