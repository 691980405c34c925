package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapphires-iaq/filterwatch/internal/domain/filter"
	"github.com/sapphires-iaq/filterwatch/internal/repository/store"
)

// fakeService records applied triggers and serves canned views.
type fakeService struct {
	view    filter.View
	applied []filter.Trigger
	fanOn   bool
}

func (f *fakeService) View(_ context.Context) filter.View {
	return f.view
}

func (f *fakeService) Apply(_ context.Context, trigger filter.Trigger) filter.View {
	f.applied = append(f.applied, trigger)
	return f.view
}

func (f *fakeService) FanOn(_ context.Context) bool {
	return f.fanOn
}

// fakeReadings serves canned sensor rows.
type fakeReadings struct {
	indoor   *store.IndoorReading
	outdoor  *store.OutdoorReading
	samples  []store.PMSample
	fetchErr error
}

func (f *fakeReadings) LatestIndoor(_ context.Context) (*store.IndoorReading, error) {
	return f.indoor, f.fetchErr
}

func (f *fakeReadings) LatestOutdoor(_ context.Context) (*store.OutdoorReading, error) {
	return f.outdoor, f.fetchErr
}

func (f *fakeReadings) RecentIndoorPM(_ context.Context, _ int) ([]store.PMSample, error) {
	return f.samples, f.fetchErr
}

func (f *fakeReadings) RecentOutdoorPM(_ context.Context, _ int) ([]store.PMSample, error) {
	return f.samples, f.fetchErr
}

// do runs one request through a fresh handler and returns the recorder.
func do(t *testing.T, service *fakeService, readings *fakeReadings, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()

	NewHandler(service, readings).ServeHTTP(recorder, request)

	return recorder
}

// TestGetView verifies the view endpoint returns the current tuple.
func TestGetView(t *testing.T) {
	t.Parallel()

	service := &fakeService{view: filter.View{
		MainModalOpen: true,
		StatusText:    "Filter ON detected. Event 3. User attention required.",
	}}

	recorder := do(t, service, &fakeReadings{}, http.MethodGet, "/api/v1/view", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var view filter.View
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	assert.Equal(t, service.view, view)
}

// TestPostAction verifies a valid trigger is applied and the view returned.
func TestPostAction(t *testing.T) {
	t.Parallel()

	service := &fakeService{view: filter.View{StatusText: "Fan enabled by user choice."}}

	recorder := do(t, service, &fakeReadings{}, http.MethodPost, "/api/v1/actions", `{"trigger":"approve"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, []filter.Trigger{filter.TriggerApprove}, service.applied)

	var view filter.View
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	assert.Equal(t, "Fan enabled by user choice.", view.StatusText)
}

// TestPostAction_BadRequests verifies malformed bodies and unknown triggers
// are rejected without reaching the service. The tick trigger is internal
// and is rejected too.
func TestPostAction_BadRequests(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", "{", `{"trigger":"explode"}`, `{"trigger":"tick"}`} {
		service := &fakeService{}

		recorder := do(t, service, &fakeReadings{}, http.MethodPost, "/api/v1/actions", body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "body %q", body)
		assert.Empty(t, service.applied, "body %q", body)
	}
}

// TestGetFan verifies the fan endpoint.
func TestGetFan(t *testing.T) {
	t.Parallel()

	recorder := do(t, &fakeService{fanOn: true}, &fakeReadings{}, http.MethodGet, "/api/v1/fan", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"fan_on":true}`, recorder.Body.String())
}

// TestGetLatestReadings verifies both feeds are bundled and a missing feed
// is null.
func TestGetLatestReadings(t *testing.T) {
	t.Parallel()

	readings := &fakeReadings{
		indoor: &store.IndoorReading{
			Timestamp: "2026-01-15 08:30:00",
			PM25:      12.5,
		},
	}

	recorder := do(t, &fakeService{}, readings, http.MethodGet, "/api/v1/readings/latest", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Indoor  *store.IndoorReading  `json:"indoor"`
		Outdoor *store.OutdoorReading `json:"outdoor"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.NotNil(t, response.Indoor)
	assert.InDelta(t, 12.5, response.Indoor.PM25, 0.0001)
	assert.Nil(t, response.Outdoor)
}

// TestGetHistory verifies the history endpoint validates the source and
// returns an empty list instead of an error on fetch failure.
func TestGetHistory(t *testing.T) {
	t.Parallel()

	samples := []store.PMSample{{Timestamp: "2026-01-15 08:30:00", PM25: 9.1}}

	recorder := do(t, &fakeService{}, &fakeReadings{samples: samples},
		http.MethodGet, "/api/v1/readings/history?source=indoor&limit=10", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Source  string           `json:"source"`
		Samples []store.PMSample `json:"samples"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "indoor", response.Source)
	assert.Len(t, response.Samples, 1)

	recorder = do(t, &fakeService{}, &fakeReadings{},
		http.MethodGet, "/api/v1/readings/history?source=basement", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = do(t, &fakeService{}, &fakeReadings{fetchErr: errors.New("down")},
		http.MethodGet, "/api/v1/readings/history?source=outdoor", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Empty(t, response.Samples)
}

// TestRouting verifies unknown paths and wrong methods.
func TestRouting(t *testing.T) {
	t.Parallel()

	recorder := do(t, &fakeService{}, &fakeReadings{}, http.MethodGet, "/api/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = do(t, &fakeService{}, &fakeReadings{}, http.MethodDelete, "/api/v1/view", "")
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)

	recorder = do(t, &fakeService{}, &fakeReadings{}, http.MethodGet, "/api/v1/actions", "")
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}
