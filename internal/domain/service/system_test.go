package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"homewizard-client/internal/domain/manager"
	"homewizard-client/internal/domain/model"
)

type MockConnection struct {
	mock.Mock
}

func (m *MockConnection) Execute(ctx context.Context, req model.Request) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func path(p string) any {
	return mock.MatchedBy(func(r model.Request) bool { return r.Path() == p })
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestSystem(conn *MockConnection) (*System, *testClock) {
	clock := &testClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	cfg := model.DefaultConfig()
	cfg.Host, cfg.Password = "10.0.0.2", "secret"
	sys := NewSystem(conn, cfg, zerolog.Nop(),
		WithLocation(time.UTC),
		WithManagerOptions(manager.WithClock(clock.Now)),
	)
	return sys, clock
}

const statusPayload = `{
	"switches": [
		{"id": 0, "status": "off"},
		{"id": 1, "status": "on", "dimlevel": 75},
		{"id": 2, "status": "on", "color": {"hue": 90, "sat": 50, "bri": 20}},
		{"id": 9, "status": "on"}
	],
	"kakusensors": [
		{"id": 0, "status": "yes", "timestamp": "10:22"},
		{"id": 1, "status": null, "timestamp": "00:00"}
	],
	"thermometers": [
		{"id": 1, "te": "16.5", "hu": 70, "te+": 21.4, "te+t": "12:53"}
	]
}`

const sensorsPayload = `{
	"kakusensors": [
		{"id": 1, "name": "Front door", "status": null, "type": "doorbell", "favorite": "no", "timestamp": "00:00"},
		{"id": 0, "name": "Back door", "status": "no", "type": "contact", "favorite": "yes", "timestamp": "09:00"}
	],
	"thermometers": [
		{"id": 0, "hu": null, "name": "Inside", "te": null, "favorite": "no", "channel": 2},
		{"id": 1, "hu": 72, "name": "Outside", "te": 15.5, "favorite": "no", "channel": 1, "te-": 13, "te-t": "06:39"}
	],
	"cameras": [
		{"id": 0, "name": "Drive", "username": "admin", "password": "pw", "ip": "192.168.88.244", "port": "8080", "presets": []}
	]
}`

func TestSystem_Switches(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/swlist")).Return(json.RawMessage(`[
		{"id": 0, "status": "on", "name": "Lounge", "type": "switch", "favorite": "yes"},
		{"id": 1, "status": "off", "name": "Table", "type": "dimmer", "dimlevel": 40},
		{"id": 2, "status": "off", "name": "Desk", "type": "hue", "color": {"hue": 180, "sat": 100, "bri": 80}},
		{"id": 3, "status": "on", "name": "Old", "dimmer": "yes", "dimlevel": "10"}
	]`), nil).Once()
	conn.On("Execute", mock.Anything, path("/get-status")).Return(json.RawMessage(statusPayload), nil).Once()

	sys, clock := newTestSystem(conn)
	switches, err := sys.Switches.All(context.Background())
	require.NoError(t, err)
	require.Len(t, switches, 4)

	lounge := switches[0]
	assert.Equal(t, "Lounge", lounge.Name)
	assert.Equal(t, model.SwitchKindStandard, lounge.Kind)
	assert.True(t, lounge.Favorite)
	assert.False(t, lounge.On, "status payload turned it off")
	assert.Equal(t, clock.Now(), lounge.LastUpdate)

	table := switches[1]
	assert.Equal(t, model.SwitchKindDimmer, table.Kind)
	assert.True(t, table.On)
	assert.Equal(t, 75, table.DimLevel)

	desk := switches[2]
	assert.Equal(t, model.SwitchKindHue, desk.Kind)
	require.NotNil(t, desk.Color)
	assert.Equal(t, model.HueColor{Hue: 90, Saturation: 50, Brightness: 20}, *desk.Color)

	old := switches[3]
	assert.Equal(t, model.SwitchKindDimmer, old.Kind)
	assert.Equal(t, 10, old.DimLevel)
	assert.Equal(t, clock.Now(), old.LastUpdate, "list load stamps entities without status")

	_, found, err := sys.Switches.ByID(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, found, "status never creates entities")

	conn.AssertExpectations(t)
}

func TestSystem_StatusUsesSharedMaxAge(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/swlist")).Return(json.RawMessage(`[]`), nil)
	conn.On("Execute", mock.Anything, mock.MatchedBy(func(r model.Request) bool {
		return r.Path() == "/get-status" && r.MaxAge == time.Second && r.Unwrap
	})).Return(json.RawMessage(statusPayload), nil).Once()

	sys, _ := newTestSystem(conn)
	_, err := sys.Switches.All(context.Background())
	require.NoError(t, err)
	conn.AssertExpectations(t)
}

func TestSystem_SwitchStatusRefreshInterval(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/swlist")).Return(json.RawMessage(`[{"id": 0, "status": "off", "name": "Lounge", "type": "switch"}]`), nil)
	conn.On("Execute", mock.Anything, path("/get-status")).Return(json.RawMessage(statusPayload), nil)

	sys, clock := newTestSystem(conn)
	ctx := context.Background()

	_, err := sys.Switches.All(ctx)
	require.NoError(t, err)
	conn.AssertNumberOfCalls(t, "Execute", 2)

	clock.Advance(500 * time.Millisecond)
	_, err = sys.Switches.All(ctx)
	require.NoError(t, err)
	conn.AssertNumberOfCalls(t, "Execute", 2)

	clock.Advance(2000 * time.Millisecond)
	_, err = sys.Switches.All(ctx)
	require.NoError(t, err)
	conn.AssertNumberOfCalls(t, "Execute", 3)
}

func TestSystem_SensorsAndThermometers(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/get-sensors")).Return(json.RawMessage(sensorsPayload), nil)
	conn.On("Execute", mock.Anything, path("/get-status")).Return(json.RawMessage(statusPayload), nil)

	sys, _ := newTestSystem(conn)
	ctx := context.Background()

	sensors, err := sys.Sensors.All(ctx)
	require.NoError(t, err)
	require.Len(t, sensors, 2)
	assert.Equal(t, "Back door", sensors[0].Name)
	assert.Equal(t, model.SensorContact, sensors[0].Type)
	assert.True(t, sensors[0].On)
	assert.Equal(t, "10:22", sensors[0].LastEventTime)
	assert.Equal(t, model.SensorDoorbell, sensors[1].Type)
	assert.Empty(t, sensors[1].LastEventTime)

	door, found, err := sys.Sensors.ByName(ctx, "Front door")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, door.ID)

	thermometers, err := sys.Thermometers.All(ctx)
	require.NoError(t, err)
	require.Len(t, thermometers, 2)

	inside := thermometers[0]
	assert.Equal(t, 2, inside.Channel)
	assert.Nil(t, inside.Temperature)
	assert.Nil(t, inside.Humidity)

	outside := thermometers[1]
	require.NotNil(t, outside.Temperature)
	assert.Equal(t, 16.5, *outside.Temperature)
	require.NotNil(t, outside.Humidity)
	assert.Equal(t, 70, *outside.Humidity)
	require.NotNil(t, outside.MaxTemperature)
	assert.Equal(t, 21.4, *outside.MaxTemperature)
	assert.Equal(t, "12:53", outside.MaxTemperatureTime)
	require.NotNil(t, outside.MinTemperature, "extremes from the list survive status")
	assert.Equal(t, 13.0, *outside.MinTemperature)
}

func TestSystem_Cameras(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/get-sensors")).Return(json.RawMessage(sensorsPayload), nil).Once()

	sys, _ := newTestSystem(conn)
	cameras, err := sys.Cameras.All(context.Background())
	require.NoError(t, err)
	require.Len(t, cameras, 1)
	assert.Equal(t, "Drive", cameras[0].Name)
	assert.Equal(t, "192.168.88.244", cameras[0].Host)
	assert.Equal(t, 8080, cameras[0].Port)
	assert.Equal(t, "pw", cameras[0].Password)

	// no status feed for cameras
	_, err = sys.Cameras.All(context.Background())
	require.NoError(t, err)
	conn.AssertExpectations(t)
}

func TestSystem_MissingCollection(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/get-sensors")).Return(json.RawMessage(`{"kakusensors": []}`), nil)

	sys, _ := newTestSystem(conn)
	_, err := sys.Cameras.All(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrProtocol))

	var perr *model.ProtocolError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "/get-sensors", perr.URL)
}

func TestSystem_MissingID(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/gplist")).Return(json.RawMessage(`[{"name": "Evening"}]`), nil)

	sys, _ := newTestSystem(conn)
	_, err := sys.Scenes.All(context.Background())
	assert.ErrorIs(t, err, model.ErrProtocol)

	var perr *model.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/gplist", perr.URL)
	assert.Contains(t, perr.Payload, `"Evening"`)
}

func TestSystem_StatusMissingIDCarriesPayload(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/swlist")).Return(json.RawMessage(`[{"id": 0, "name": "Lounge", "type": "switch"}]`), nil)
	conn.On("Execute", mock.Anything, path("/get-status")).Return(json.RawMessage(`{"switches": [{"status": "on"}]}`), nil)

	sys, _ := newTestSystem(conn)
	_, err := sys.Switches.All(context.Background())

	var perr *model.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/get-status", perr.URL)
	assert.Contains(t, perr.Payload, `"switches"`)
}

func TestSystem_Scenes(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/gplist")).Return(json.RawMessage(`[
		{"id": 0, "name": "Evening", "favorite": "yes"},
		{"id": 1, "name": "Away", "favorite": "no"}
	]`), nil).Once()

	sys, _ := newTestSystem(conn)
	scenes, err := sys.Scenes.All(context.Background())
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	assert.True(t, scenes[0].Favorite)

	away, found, err := sys.Scenes.ByName(context.Background(), "Away")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, away.ID)
	conn.AssertExpectations(t)
}

func TestSystem_SceneDetail(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/gp/get/4/codes")).Return(json.RawMessage(`["A1", "B2"]`), nil)
	conn.On("Execute", mock.Anything, path("/gp/get/4/switches")).Return(json.RawMessage(`[
		{"type": "switch", "id": 3, "name": "Lamp", "onstatus": 1, "offstatus": 0, "dimmer": "no"},
		{"type": "switch", "id": 5, "name": "Fan", "onstatus": -1, "offstatus": 0, "dimmer": "yes"}
	]`), nil)
	conn.On("Execute", mock.Anything, path("/gp/get/4/timers")).Return(json.RawMessage(`[
		{"id": 0, "action": "on", "trigger": "sunset", "time": "+30", "days": [1, 2, 3], "active": "yes"}
	]`), nil)

	sys, _ := newTestSystem(conn)
	detail, err := sys.SceneDetail(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, 4, detail.SceneID)
	assert.Equal(t, []string{"A1", "B2"}, detail.Codes)
	require.Len(t, detail.Switches, 2)
	assert.Equal(t, model.ActionOn, detail.Switches[0].OnAction)
	assert.Equal(t, model.ActionOff, detail.Switches[0].OffAction)
	assert.Equal(t, model.ActionNone, detail.Switches[1].OnAction)
	assert.True(t, detail.Switches[1].Dimmer)

	require.Len(t, detail.Timers, 1)
	timer := detail.Timers[0]
	assert.Equal(t, model.SubjectScene, timer.Subject)
	assert.Equal(t, 4, timer.SubjectID)
	assert.Equal(t, model.TriggerSunset, timer.Trigger)
	assert.Equal(t, []model.Day{model.Monday, model.Tuesday, model.Wednesday}, timer.Days)
}

func TestSystem_SceneDetailUnknownSwitchType(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/gp/get/1/codes")).Return(json.RawMessage(`[]`), nil)
	conn.On("Execute", mock.Anything, path("/gp/get/1/switches")).Return(json.RawMessage(`[{"type": "somfy", "id": 1}]`), nil)

	sys, _ := newTestSystem(conn)
	_, err := sys.SceneDetail(context.Background(), 1)
	assert.ErrorIs(t, err, model.ErrProtocol)

	var perr *model.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Payload, `"somfy"`)
}

func TestSystem_Timers(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/timers")).Return(json.RawMessage(`[
		{"id": 0, "gpid": 1, "type": "scene", "action": "off", "trigger": "sunrise", "time": "-0", "days": [0, 6], "active": "yes"},
		{"id": 3, "swid": 3, "type": "switch", "action": "off", "trigger": "time", "time": "16:30", "days": [7], "active": "no"}
	]`), nil)

	sys, _ := newTestSystem(conn)
	timers, err := sys.Timers.All(context.Background())
	require.NoError(t, err)
	require.Len(t, timers, 2)

	assert.Equal(t, model.SubjectScene, timers[0].Subject)
	assert.Equal(t, 1, timers[0].SubjectID)
	assert.Equal(t, []model.Day{model.Sunday, model.Saturday}, timers[0].Days)
	assert.True(t, timers[0].Repeating())
	assert.True(t, timers[0].Active)

	assert.Equal(t, model.SubjectSwitch, timers[1].Subject)
	assert.Equal(t, 3, timers[1].SubjectID)
	assert.Equal(t, "16:30", timers[1].TimeOrOffset)
	assert.False(t, timers[1].Repeating())
	assert.False(t, timers[1].Active)
}

func TestSystem_TimersRejectUnknownTrigger(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/timers")).Return(json.RawMessage(`[
		{"id": 0, "swid": 1, "type": "switch", "action": "on", "trigger": "moonrise", "days": []}
	]`), nil)

	sys, _ := newTestSystem(conn)
	_, err := sys.Timers.All(context.Background())
	assert.ErrorIs(t, err, model.ErrProtocol)

	var perr *model.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/timers", perr.URL)
	assert.Contains(t, perr.Payload, `"moonrise"`)
}

func TestSystem_Version(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, mock.MatchedBy(func(r model.Request) bool {
		return r.Path() == "/get-status" && !r.Unwrap
	})).Return(json.RawMessage(`{"status": "ok", "version": "2.352", "response": {}}`), nil)

	sys, _ := newTestSystem(conn)
	v, err := sys.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.352", v)
}

func TestSystem_VersionMissing(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, path("/get-status")).Return(json.RawMessage(`{"status": "ok"}`), nil)

	sys, _ := newTestSystem(conn)
	_, err := sys.Version(context.Background())
	assert.ErrorIs(t, err, model.ErrProtocol)
}

func TestSystem_SensorLog(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, mock.MatchedBy(func(r model.Request) bool {
		return r.Path() == "/kks/get/2/log" && r.MaxAge == 3*time.Second
	})).Return(json.RawMessage(`[
		{"t": "2013-07-16 22:15:11", "status": "yes"},
		{"t": "2013-07-16 22:15:04", "status": "no"}
	]`), nil)

	sys, _ := newTestSystem(conn)
	events, err := sys.SensorLog(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, time.Date(2013, 7, 16, 22, 15, 4, 0, time.UTC), events[0].Time)
	assert.False(t, events[0].On)
	assert.True(t, events[1].On)
}

func TestSystem_ThermometerHistory(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Execute", mock.Anything, mock.MatchedBy(func(r model.Request) bool {
		return r.Path() == "/te/graph/1/day" && r.MaxAge == 10*time.Minute
	})).Return(json.RawMessage(`[
		{"t": "2013-08-13 00:10", "te": 15.5, "hu": 66},
		{"t": "2013-08-13 00:20", "te": "15.4", "hu": "67"}
	]`), nil)
	conn.On("Execute", mock.Anything, mock.MatchedBy(func(r model.Request) bool {
		return r.Path() == "/te/graph/1/month" && r.MaxAge == time.Hour
	})).Return(json.RawMessage(`[
		{"t": "2013-07-16 12:00", "te+": 26.9, "te-": 21.1, "hu+": 60, "hu-": 55}
	]`), nil)

	sys, _ := newTestSystem(conn)
	ctx := context.Background()

	day, err := sys.ThermometerHistory(ctx, 1, model.TimeSpanDay)
	require.NoError(t, err)
	require.Len(t, day.Temperature, 2)
	assert.Equal(t, 15.4, day.Temperature[1].Value)
	assert.Nil(t, day.Temperature[1].Max)
	assert.Equal(t, 67, day.Humidity[1].Value)

	month, err := sys.ThermometerHistory(ctx, 1, model.TimeSpanMonth)
	require.NoError(t, err)
	require.Len(t, month.Temperature, 1)
	assert.Equal(t, 21.1, month.Temperature[0].Value)
	require.NotNil(t, month.Temperature[0].Max)
	assert.Equal(t, 26.9, *month.Temperature[0].Max)
	assert.Equal(t, 55, month.Humidity[0].Value)
	assert.Equal(t, time.Date(2013, 7, 16, 12, 0, 0, 0, time.UTC), month.Humidity[0].Time)
}

func TestSystem_RefreshAllJoinsErrors(t *testing.T) {
	conn := new(MockConnection)
	boom := &model.TransportError{Method: "GET", URL: "http://10.0.0.2:80/***/gplist", Err: errors.New("timeout")}
	conn.On("Execute", mock.Anything, path("/swlist")).Return(json.RawMessage(`[]`), nil)
	conn.On("Execute", mock.Anything, path("/get-sensors")).Return(json.RawMessage(sensorsPayload), nil)
	conn.On("Execute", mock.Anything, path("/gplist")).Return(nil, boom)
	conn.On("Execute", mock.Anything, path("/timers")).Return(json.RawMessage(`[]`), nil)

	sys, _ := newTestSystem(conn)
	err := sys.RefreshAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransport)

	// the other kinds still loaded
	cameras, err := sys.Cameras.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, cameras, 1)
}
