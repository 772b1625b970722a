package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"solwindx/client"
	"solwindx/datasource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend fakes the prediction service
type backend struct {
	citiesDown atomic.Bool
	predicts   atomic.Int32
	lastBody   atomic.Value

	// hold, when set, runs before a prediction is answered
	hold func(body map[string]interface{})
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/cities":
		if b.citiesDown.Load() {
			http.Error(w, `{"detail":"down"}`, http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"count": 3, "cities": ["Bidar", "Karwar", "Tumakuru"]}`))
	case "/predict-energy":
		b.predicts.Add(1)
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.lastBody.Store(body)
		if b.hold != nil {
			b.hold(body)
		}

		resp := map[string]interface{}{
			"city":           body["city"],
			"lat":            14.8,
			"lon":            74.1,
			"assigned_model": "Karwar",
			"weather":        map[string]interface{}{"temperature": 30.0, "wind_speed": 5.0, "condition": "Clear"},
			"energy_per_m2":  0.2,
			"energy_total":   12.0,
		}
		if body["mode"] == "7day" {
			resp["forecast_data"] = []map[string]interface{}{
				{"day": 1, "energy_total": 4.0}, {"day": 2, "energy_total": 9.0}, {"day": 3, "energy_total": 9.0},
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	default:
		http.NotFound(w, r)
	}
}

func setup(t *testing.T) (*httptest.Server, *backend) {
	t.Helper()
	return serve(t, &backend{})
}

func serve(t *testing.T, b *backend) (*httptest.Server, *backend) {
	t.Helper()
	upstream := httptest.NewServer(b)
	t.Cleanup(upstream.Close)

	svc := datasource.NewSolWindXService(upstream.URL, 2*time.Second, nil)
	srv := NewServer(svc, NewSessionStore(), 0, nil)
	bff := httptest.NewServer(srv.Handler())
	t.Cleanup(bff.Close)
	return bff, b
}

func call(t *testing.T, method, url string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func newSession(t *testing.T, bff *httptest.Server) (string, map[string]interface{}) {
	status, out := call(t, http.MethodPost, bff.URL+"/api/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	id, _ := out["session"].(string)
	require.NotEmpty(t, id)
	return id, out
}

func TestCreateSessionLoadsLocations(t *testing.T) {
	bff, _ := setup(t)
	_, out := newSession(t, bff)

	locations := out["locations"].([]interface{})
	assert.Len(t, locations, 3)
	assert.Equal(t, map[string]interface{}{"name": "Karwar", "model": "coastal"}, locations[1])
	assert.Len(t, out["featured"], 2)
	assert.Nil(t, out["notices"])
}

func TestCreateSessionFallsBack(t *testing.T) {
	bff, b := setup(t)
	b.citiesDown.Store(true)
	_, out := newSession(t, bff)

	assert.Len(t, out["locations"], 9)
	notices := out["notices"].([]interface{})
	require.Len(t, notices, 1)
	assert.Equal(t, "Error loading cities. Using fallback list.", notices[0].(map[string]interface{})["message"])
}

func TestForecastFlow(t *testing.T) {
	bff, b := setup(t)
	id, _ := newSession(t, bff)
	base := bff.URL + "/api/sessions/" + id

	status, out := call(t, http.MethodGet, base+"/locations?q=KAR", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, out["matches"], 1)

	// no city selected yet
	status, out = call(t, http.MethodPost, base+"/forecast", map[string]interface{}{"mode": "realtime", "panel_area": "10"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "city", out["field"])
	assert.EqualValues(t, 0, b.predicts.Load())

	status, out = call(t, http.MethodPut, base+"/selection", map[string]string{"city": "Karwar"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Karwar", out["location"].(map[string]interface{})["name"])

	status, out = call(t, http.MethodPost, base+"/forecast", map[string]interface{}{"mode": "weekly", "panel_area": 10})
	require.Equal(t, http.StatusOK, status, "%v", out)
	sent := b.lastBody.Load().(map[string]interface{})
	assert.Equal(t, "7day", sent["mode"])
	assert.InDelta(t, 0.18, sent["efficiency"], 1e-9)

	result := out["result"].(map[string]interface{})
	assert.Equal(t, "7day", result["mode"])
	series := result["summary"].(map[string]interface{})["series"].(map[string]interface{})
	assert.Equal(t, 2.0, series["peak"].(map[string]interface{})["day"])
	assert.Equal(t, "line", series["chart"])

	status, out = call(t, http.MethodPost, base+"/forecast", map[string]interface{}{"mode": "wind", "num_turbines": "3", "rotor_diameter": "80"})
	require.Equal(t, http.StatusOK, status, "%v", out)
	sent = b.lastBody.Load().(map[string]interface{})
	assert.InDelta(t, 15079.64, sent["area"], 0.01)
	wind := out["result"].(map[string]interface{})["summary"].(map[string]interface{})["wind"].(map[string]interface{})
	assert.InDelta(t, 4.0, wind["energy_per_turbine"], 1e-9)

	status, out = call(t, http.MethodGet, base+"/view", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, out["seq"])
	assert.Equal(t, "wind", out["selection"].(map[string]interface{})["mode"])
	assert.Equal(t, "wind", out["result"].(map[string]interface{})["mode"])
}

func TestForecastBackendFailure(t *testing.T) {
	b := &backend{}
	upstream := httptest.NewServer(b)
	svc := datasource.NewSolWindXService(upstream.URL, time.Second, nil)
	bff := httptest.NewServer(NewServer(svc, NewSessionStore(), 0, nil).Handler())
	defer bff.Close()

	id, _ := newSession(t, bff)
	base := bff.URL + "/api/sessions/" + id
	status, _ := call(t, http.MethodPut, base+"/selection", map[string]string{"city": "Bidar", "mode": "realtime"})
	require.Equal(t, http.StatusOK, status)

	upstream.Close()
	status, out := call(t, http.MethodPost, base+"/forecast", map[string]interface{}{"mode": "realtime", "panel_area": "4"})
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "Error fetching predictions. Please try again.", out["error"])
}

func TestUnknownSessionAndMode(t *testing.T) {
	bff, _ := setup(t)

	status, _ := call(t, http.MethodGet, bff.URL+"/api/sessions/nope/view", nil)
	assert.Equal(t, http.StatusNotFound, status)

	id, _ := newSession(t, bff)
	status, _ = call(t, http.MethodPost, bff.URL+"/api/sessions/"+id+"/forecast", map[string]string{"mode": "hourly"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, http.MethodDelete, bff.URL+"/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = call(t, http.MethodGet, bff.URL+"/api/sessions/"+id+"/featured", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthAndRequestID(t *testing.T) {
	bff, _ := setup(t)

	resp, err := http.Get(bff.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "SolWindX", out["backend"])
}

func TestFormValueAcceptsNumbers(t *testing.T) {
	var body forecastRequest
	require.NoError(t, json.Unmarshal([]byte(`{"mode":"wind","num_turbines":3,"rotor_diameter":"80.5","panel_area":null}`), &body))
	assert.Equal(t, formValue("3"), body.NumTurbines)
	assert.Equal(t, formValue("80.5"), body.RotorDiameter)
	assert.Equal(t, formValue(""), body.PanelArea)

	assert.Error(t, json.Unmarshal([]byte(`{"panel_area": true}`), &body))
}

func TestForecastSupersededReturnsConflict(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	bff, _ := serve(t, &backend{hold: func(body map[string]interface{}) {
		if body["area"] == 1.0 {
			close(firstStarted)
			<-releaseFirst
		}
	}})
	var once sync.Once
	release := func() { once.Do(func() { close(releaseFirst) }) }
	t.Cleanup(release)

	id, _ := newSession(t, bff)
	base := bff.URL + "/api/sessions/" + id
	status, _ := call(t, http.MethodPut, base+"/selection", map[string]string{"city": "Karwar"})
	require.Equal(t, http.StatusOK, status)

	type outcome struct {
		status int
		body   map[string]interface{}
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		resp, err := http.Post(base+"/forecast", "application/json",
			bytes.NewBufferString(`{"mode":"realtime","panel_area":"1"}`))
		if err != nil {
			done <- outcome{err: err}
			return
		}
		defer resp.Body.Close()
		var body map[string]interface{}
		err = json.NewDecoder(resp.Body).Decode(&body)
		done <- outcome{status: resp.StatusCode, body: body, err: err}
	}()
	<-firstStarted

	status, out := call(t, http.MethodPost, base+"/forecast", map[string]interface{}{"mode": "realtime", "panel_area": "2"})
	release()
	require.Equal(t, http.StatusOK, status, "%v", out)
	assert.Equal(t, 2.0, out["seq"])

	first := <-done
	require.NoError(t, first.err)
	assert.Equal(t, http.StatusConflict, first.status)
	assert.Equal(t, client.ErrSuperseded.Error(), first.body["error"])
	assert.Nil(t, first.body["notices"])

	status, out = call(t, http.MethodGet, base+"/view", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, out["seq"])
}

func TestSelectBadModeRaisesNotice(t *testing.T) {
	bff, _ := setup(t)
	id, _ := newSession(t, bff)

	status, out := call(t, http.MethodPut, bff.URL+"/api/sessions/"+id+"/selection", map[string]string{"mode": "hourly"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "mode", out["field"])
	notices := out["notices"].([]interface{})
	require.Len(t, notices, 1)
	assert.Equal(t, "Please choose a forecast mode", notices[0].(map[string]interface{})["message"])
}
