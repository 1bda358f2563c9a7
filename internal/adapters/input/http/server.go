package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/amimof/huego"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"homewizard-client/internal/domain/model"
	"homewizard-client/internal/domain/service"
	"homewizard-client/internal/domain/translator"
	"homewizard-client/internal/ports"
)

// Server exposes a read-only view of one HomeWizard: entity JSON under
// /homewizard and switches as Hue lights under /api.
type Server struct {
	switches     ports.EntityReader[model.Switch]
	sensors      ports.EntityReader[model.Sensor]
	thermometers ports.EntityReader[model.Thermometer]
	scenes       ports.EntityReader[model.Scene]
	timers       ports.EntityReader[model.Timer]
	cameras      ports.EntityReader[model.Camera]
	system       ports.SystemPort

	translatorFactory *translator.Factory
	logger            zerolog.Logger
}

func NewServer(sys *service.System, translatorFactory *translator.Factory, logger zerolog.Logger) *Server {
	return &Server{
		switches:          sys.Switches,
		sensors:           sys.Sensors,
		thermometers:      sys.Thermometers,
		scenes:            sys.Scenes,
		timers:            sys.Timers,
		cameras:           sys.Cameras,
		system:            sys,
		translatorFactory: translatorFactory,
		logger:            logger,
	}
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.loggingMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/homewizard", func(r chi.Router) {
		r.Get("/version", s.handleVersion)

		r.Get("/switches", listEntities(s, s.switches))
		r.Get("/switches/{id}", getEntity(s, s.switches))
		r.Get("/sensors", listEntities(s, s.sensors))
		r.Get("/sensors/{id}", getEntity(s, s.sensors))
		r.Get("/sensors/{id}/log", s.handleSensorLog)
		r.Get("/thermometers", listEntities(s, s.thermometers))
		r.Get("/thermometers/{id}", getEntity(s, s.thermometers))
		r.Get("/thermometers/{id}/history/{span}", s.handleThermometerHistory)
		r.Get("/scenes", listEntities(s, s.scenes))
		r.Get("/scenes/{id}", getEntity(s, s.scenes))
		r.Get("/scenes/{id}/detail", s.handleSceneDetail)
		r.Get("/timers", listEntities(s, s.timers))
		r.Get("/timers/{id}", getEntity(s, s.timers))
		r.Get("/cameras", listEntities(s, s.cameras))
		r.Get("/cameras/{id}", getEntity(s, s.cameras))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/", s.handleRegister)
		r.Get("/{user}", s.handleFullState)
		r.Get("/{user}/lights", s.handleGetLights)
		r.Get("/{user}/lights/{id}", s.handleGetLight)
		r.Put("/{user}/lights/{id}/state", s.handleSetLightState)
	})

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func listEntities[T any](s *Server, reader ports.EntityReader[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if name := r.URL.Query().Get("name"); name != "" {
			e, found, err := reader.ByName(r.Context(), name)
			if err != nil {
				s.writeDeviceError(w, err)
				return
			}
			if !found {
				writeNotFound(w, "no entity named "+strconv.Quote(name))
				return
			}
			writeJSON(w, http.StatusOK, e)
			return
		}

		entities, err := reader.All(r.Context())
		if err != nil {
			s.writeDeviceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entities)
	}
}

func getEntity[T any](s *Server, reader ports.EntityReader[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		e, found, err := reader.ByID(r.Context(), id)
		if err != nil {
			s.writeDeviceError(w, err)
			return
		}
		if !found {
			writeNotFound(w, "no entity with id "+strconv.Itoa(id))
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	v, err := s.system.Version(r.Context())
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"version": v})
}

func (s *Server) handleSensorLog(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	events, err := s.system.SensorLog(r.Context(), id)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleThermometerHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	span, err := model.ParseTimeSpan(chi.URLParam(r, "span"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	history, err := s.system.ThermometerHistory(r.Context(), id, span)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleSceneDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	detail, err := s.system.SceneDetail(r.Context(), id)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]any{{"success": map[string]string{"username": "homewizard"}}})
}

func (s *Server) lights(ctx context.Context) (map[string]huego.Light, error) {
	switches, err := s.switches.All(ctx)
	if err != nil {
		return nil, err
	}
	lights := make(map[string]huego.Light, len(switches))
	for _, sw := range switches {
		lights[strconv.Itoa(sw.ID)] = s.translatorFactory.Light(sw)
	}
	return lights, nil
}

func (s *Server) handleFullState(w http.ResponseWriter, r *http.Request) {
	lights, err := s.lights(r.Context())
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}

	fullState := map[string]any{
		"lights": lights,
		"groups": map[string]any{},
		"config": map[string]any{
			"name":       "HomeWizard",
			"apiversion": "1.11.0",
		},
	}
	writeJSON(w, http.StatusOK, fullState)
}

func (s *Server) handleGetLights(w http.ResponseWriter, r *http.Request) {
	lights, err := s.lights(r.Context())
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lights)
}

func (s *Server) handleGetLight(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	sw, found, err := s.switches.ByID(r.Context(), id)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	if !found {
		writeHueError(w, http.StatusNotFound, hueErrResourceUnavailable, "/lights/"+strconv.Itoa(id),
			"resource, /lights/"+strconv.Itoa(id)+", not available")
		return
	}
	writeJSON(w, http.StatusOK, s.translatorFactory.Light(sw))
}

// Switching goes through per-entity write endpoints this server does not offer.
func (s *Server) handleSetLightState(w http.ResponseWriter, r *http.Request) {
	address := "/lights/" + chi.URLParam(r, "id") + "/state"
	writeHueError(w, http.StatusForbidden, hueErrNotModifiable, address, "parameter, state, is not modifiable")
}

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeBadRequest(w, "invalid id "+strconv.Quote(raw))
		return 0, false
	}
	return id, true
}

func (s *Server) writeDeviceError(w http.ResponseWriter, err error) {
	s.logger.Error().Err(err).Msg("device request failed")
	switch {
	case errors.Is(err, model.ErrTransport):
		writeError(w, http.StatusBadGateway, ErrCodeUnreachable, "HomeWizard unreachable")
	case errors.Is(err, model.ErrProtocol):
		writeError(w, http.StatusBadGateway, ErrCodeBadResponse, "unexpected HomeWizard response")
	default:
		writeInternalError(w, "internal error")
	}
}
