package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"homewizard-client/internal/domain/manager"
	"homewizard-client/internal/domain/model"
	"homewizard-client/internal/ports"
)

type (
	SwitchManager      = manager.Manager[model.Switch, *model.Switch]
	SensorManager      = manager.Manager[model.Sensor, *model.Sensor]
	ThermometerManager = manager.Manager[model.Thermometer, *model.Thermometer]
	SceneManager       = manager.Manager[model.Scene, *model.Scene]
	TimerManager       = manager.Manager[model.Timer, *model.Timer]
	CameraManager      = manager.Manager[model.Camera, *model.Camera]
)

var (
	_ ports.EntityReader[model.Switch]      = (*SwitchManager)(nil)
	_ ports.EntityReader[model.Sensor]      = (*SensorManager)(nil)
	_ ports.EntityReader[model.Thermometer] = (*ThermometerManager)(nil)
	_ ports.EntityReader[model.Scene]       = (*SceneManager)(nil)
	_ ports.EntityReader[model.Timer]       = (*TimerManager)(nil)
	_ ports.EntityReader[model.Camera]      = (*CameraManager)(nil)

	_ ports.SystemPort = (*System)(nil)
)

// statusFetcher returns the unwrapped /get-status payload.
type statusFetcher func(ctx context.Context) (json.RawMessage, error)

func statusMember[T any](ctx context.Context, fetch statusFetcher, name string) ([]T, origin, error) {
	payload, err := fetch(ctx)
	if err != nil {
		return nil, origin{}, err
	}
	records, err := member[T](payload, pathStatus, name)
	return records, origin{pathStatus, payload}, err
}

// System groups the entity managers of one HomeWizard. All of them share a
// single connection, so the /get-status body fetched by one manager is reused
// by the others while it is younger than the configured max-age.
type System struct {
	conn     ports.Connection
	cfg      *model.Config
	logger   zerolog.Logger
	location *time.Location
	mgrOpts  []manager.Option

	Switches     *SwitchManager
	Sensors      *SensorManager
	Thermometers *ThermometerManager
	Scenes       *SceneManager
	Timers       *TimerManager
	Cameras      *CameraManager
}

type SystemOption func(*System)

// WithLocation sets the zone device timestamps are read in. Defaults to time.Local.
func WithLocation(loc *time.Location) SystemOption {
	return func(s *System) { s.location = loc }
}

// WithManagerOptions passes options through to every entity manager.
func WithManagerOptions(opts ...manager.Option) SystemOption {
	return func(s *System) { s.mgrOpts = append(s.mgrOpts, opts...) }
}

func NewSystem(conn ports.Connection, cfg *model.Config, logger zerolog.Logger, opts ...SystemOption) *System {
	s := &System{
		conn:     conn,
		cfg:      cfg,
		logger:   logger,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	managerOpts := append([]manager.Option{manager.WithLogger(logger)}, s.mgrOpts...)
	iv := cfg.UpdateIntervals
	s.Switches = manager.New[model.Switch](switchSource(conn, s.fetchStatus, model.Interval(iv.Switch)), managerOpts...)
	s.Sensors = manager.New[model.Sensor](sensorSource(conn, s.fetchStatus, model.Interval(iv.Sensor)), managerOpts...)
	s.Thermometers = manager.New[model.Thermometer](thermometerSource(conn, s.fetchStatus, model.Interval(iv.Thermometer)), managerOpts...)
	s.Scenes = manager.New[model.Scene](sceneSource(conn, model.Interval(iv.Scene)), managerOpts...)
	s.Timers = manager.New[model.Timer](timerSource(conn, model.Interval(iv.Timer)), managerOpts...)
	s.Cameras = manager.New[model.Camera](cameraSource(conn, model.Interval(iv.Camera)), managerOpts...)
	return s
}

func (s *System) fetchStatus(ctx context.Context) (json.RawMessage, error) {
	req := model.NewRequest(pathStatus)
	if d := s.cfg.StatusMaxAge(); d > 0 {
		req = req.WithMaxAge(d)
	}
	return s.conn.Execute(ctx, req)
}

// Version reports the firmware version from the /get-status envelope.
func (s *System) Version(ctx context.Context) (string, error) {
	req := model.NewRequest(pathStatus).Raw()
	if d := s.cfg.StatusMaxAge(); d > 0 {
		req = req.WithMaxAge(d)
	}
	payload, err := s.conn.Execute(ctx, req)
	if err != nil {
		return "", err
	}
	var envelope struct {
		Version flex `json:"version"`
	}
	if err := decode(payload, pathStatus, &envelope); err != nil {
		return "", err
	}
	if envelope.Version.IsNull() {
		return "", &model.ProtocolError{URL: pathStatus, Reason: `missing "version"`, Payload: string(payload)}
	}
	return envelope.Version.String(), nil
}

// RefreshAll reloads every entity list. All managers are attempted; the
// returned error joins the individual failures.
func (s *System) RefreshAll(ctx context.Context) error {
	refreshers := []interface {
		Kind() string
		Refresh(context.Context) error
	}{s.Switches, s.Sensors, s.Thermometers, s.Scenes, s.Timers, s.Cameras}

	var errs []error
	for _, r := range refreshers {
		if err := r.Refresh(ctx); err != nil {
			s.logger.Error().Err(err).Str("kind", r.Kind()).Msg("refresh failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
