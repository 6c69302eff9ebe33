package sigfox

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubServer records the last request and replies with a canned response.
type stubServer struct {
	*httptest.Server

	method string
	path   string
	query  map[string][]string
	body   []byte
	auth   struct {
		login    string
		password string
		ok       bool
	}
}

func newStubServer(t *testing.T, status int, response string) *stubServer {
	t.Helper()
	s := &stubServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.method = r.Method
		s.path = r.URL.Path
		s.query = r.URL.Query()
		s.body, _ = io.ReadAll(r.Body)
		s.auth.login, s.auth.password, s.auth.ok = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if response != "" {
			w.Write([]byte(response))
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestClient(s *stubServer, opts ...Option) *Client {
	return New(s.URL, "test-login", "test-password", opts...)
}

func TestClientSendsBasicAuth(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"data":[]}`)
	_, err := newTestClient(srv).Devices.List(context.Background(), ListQuery{})
	require.NoError(t, err)

	assert.True(t, srv.auth.ok)
	assert.Equal(t, "test-login", srv.auth.login)
	assert.Equal(t, "test-password", srv.auth.password)
}

func TestClientFailsFastWithoutCredentials(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	c := New(ts.URL, "", "")
	_, err := c.Devices.List(context.Background(), ListQuery{})

	require.Error(t, err)
	assert.True(t, IsAuthentication(err))
	assert.False(t, called, "no network call should happen without credentials")
}

func TestListDecodesEnvelope(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{
		"data": [
			{"id": "ABC123", "name": "sensor-1", "pac": "0011223344556677"},
			{"id": "DEF456", "name": "sensor-2"}
		],
		"paging": {"next": "https://api.sigfox.com/v2/devices?offset=100"}
	}`)

	devices, err := newTestClient(srv).Devices.List(context.Background(), ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "ABC123", devices[0].ID)
	assert.Equal(t, "sensor-1", devices[0].Name)
	assert.Equal(t, "DEF456", devices[1].ID)

	assert.Equal(t, http.MethodGet, srv.method)
	assert.Equal(t, "/devices", srv.path)
	assert.Equal(t, []string{"2"}, srv.query["limit"])
}

func TestListEmptyDataYieldsEmptySlice(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"data":[],"paging":{}}`)
	devices, err := newTestClient(srv).Devices.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, devices)
	assert.Empty(t, devices)
}

func TestListForwardsFilters(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"data":[]}`)
	q := ListQuery{
		Deep:    true,
		Sort:    "name",
		Filters: map[string]string{FilterDeviceTypeID: "dt-1", FilterGroupIDs: "g1,g2"},
	}
	_, err := newTestClient(srv).Devices.List(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, []string{"true"}, srv.query["deep"])
	assert.Equal(t, []string{"name"}, srv.query["sort"])
	assert.Equal(t, []string{"dt-1"}, srv.query["deviceTypeId"])
	assert.Equal(t, []string{"g1,g2"}, srv.query["groupIds"])
}

func TestGetNotFound(t *testing.T) {
	srv := newStubServer(t, http.StatusNotFound, `{"message":"device NOPE does not exist"}`)
	_, err := newTestClient(srv).Devices.Get(context.Background(), "NOPE")

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "device NOPE does not exist", apiErr.Message)
}

func TestGetEscapesResourceID(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"id":"weird id"}`)
	_, err := newTestClient(srv).Devices.Get(context.Background(), "weird id")
	require.NoError(t, err)
	assert.Equal(t, "/devices/weird id", srv.path) // URL.Path is decoded
}

func TestCreateDevice(t *testing.T) {
	srv := newStubServer(t, http.StatusCreated, `{"id":"ABC123"}`)

	created, err := newTestClient(srv).Devices.Create(context.Background(), DeviceCreate{
		ID:           "ABC123",
		Name:         "sensor-1",
		DeviceTypeID: "dt-1",
		PAC:          "0011223344556677",
	})
	require.NoError(t, err)
	assert.Equal(t, "ABC123", created.ID)
	assert.Equal(t, http.MethodPost, srv.method)
	assert.Equal(t, "/devices", srv.path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(srv.body, &sent))
	assert.Equal(t, "ABC123", sent["id"])
	assert.Equal(t, "dt-1", sent["deviceTypeId"])
	assert.Equal(t, "0011223344556677", sent["pac"])
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	srv := newStubServer(t, http.StatusCreated, `{}`)
	_, err := newTestClient(srv).Devices.Create(context.Background(), DeviceCreate{ID: "ABC123"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Empty(t, srv.method, "validation failures must not reach the server")
}

func TestUpdateSendsOnlyProvidedFields(t *testing.T) {
	srv := newStubServer(t, http.StatusNoContent, "")

	err := newTestClient(srv).Devices.Update(context.Background(), "ABC123", DeviceUpdate{
		Name: String("renamed"),
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, srv.method)
	assert.Equal(t, "/devices/ABC123", srv.path)
	assert.JSONEq(t, `{"name":"renamed"}`, string(srv.body))
}

func TestUpdateCanSendExplicitFalse(t *testing.T) {
	srv := newStubServer(t, http.StatusNoContent, "")

	err := newTestClient(srv).Devices.Update(context.Background(), "ABC123", DeviceUpdate{
		AutomaticRenewal: Bool(false),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"automaticRenewal":false}`, string(srv.body))
}

func TestDeleteDevice(t *testing.T) {
	srv := newStubServer(t, http.StatusNoContent, "")
	err := newTestClient(srv).Devices.Delete(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, srv.method)
	assert.Equal(t, "/devices/ABC123", srv.path)
}

func TestDeviceMessagesPath(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"data":[{"time":1700000000000,"data":"deadbeef","seqNumber":42}]}`)

	messages, err := newTestClient(srv).Devices.Messages(context.Background(), "ABC123", ListQuery{
		Filters: map[string]string{FilterSince: "1690000000000"},
	})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "deadbeef", messages[0].Data)
	assert.Equal(t, 42, messages[0].SeqNumber)
	assert.Equal(t, "/devices/ABC123/messages", srv.path)
	assert.Equal(t, []string{"1690000000000"}, srv.query["since"])
}

func TestTimeoutClassification(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	c := New(ts.URL, "login", "password", WithTimeout(20*time.Millisecond))
	_, err := c.Devices.List(context.Background(), ListQuery{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTimeout, apiErr.Kind)
	assert.True(t, apiErr.Retriable)
	assert.Zero(t, apiErr.StatusCode)
}

func TestNetworkErrorClassification(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // closed server refuses connections

	c := New(ts.URL, "login", "password")
	_, err := c.Devices.List(context.Background(), ListQuery{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.True(t, apiErr.Retriable)
}

func TestServerErrorPropagatesMessage(t *testing.T) {
	srv := newStubServer(t, http.StatusInternalServerError, `{"message":"database unavailable"}`)
	_, err := newTestClient(srv).Devices.List(context.Background(), ListQuery{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServerError, apiErr.Kind)
	assert.Equal(t, "database unavailable", apiErr.Message)
	assert.True(t, apiErr.Retriable)
}

func TestNewStripsTrailingSlash(t *testing.T) {
	c := New("https://api.example.com/v2/", "l", "p")
	assert.Equal(t, "https://api.example.com/v2", c.baseURL)
}

func TestNewDefaultsBaseURL(t *testing.T) {
	c := New("", "l", "p")
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}

func TestAPIUserRenewCredential(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"accessToken":"new-secret"}`)

	cred, err := newTestClient(srv).APIUsers.RenewCredential(context.Background(), "au-1")
	require.NoError(t, err)
	assert.Equal(t, "new-secret", cred.AccessToken)
	assert.Equal(t, http.MethodPut, srv.method)
	assert.Equal(t, "/api-users/au-1/renew-credential", srv.path)
}

func TestUserAddRoles(t *testing.T) {
	srv := newStubServer(t, http.StatusNoContent, "")

	err := newTestClient(srv).Users.AddRoles(context.Background(), "u-1", []string{"r1", "r2"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, srv.method)
	assert.Equal(t, "/users/u-1/roles", srv.path)
	assert.JSONEq(t, `{"roleIds":["r1","r2"]}`, string(srv.body))
}

func TestUserAddRolesRequiresRoles(t *testing.T) {
	srv := newStubServer(t, http.StatusNoContent, "")
	err := newTestClient(srv).Users.AddRoles(context.Background(), "u-1", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Empty(t, srv.method)
}

func TestUserRemoveRole(t *testing.T) {
	srv := newStubServer(t, http.StatusNoContent, "")

	err := newTestClient(srv).Users.RemoveRole(context.Background(), "u-1", "r1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, srv.method)
	assert.Equal(t, "/users/u-1/roles/r1", srv.path)
}

func TestCoverageStartBulkPrediction(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"jobId":"job-42"}`)

	job, err := newTestClient(srv).Coverages.StartBulkPrediction(context.Background(), CoverageBulkRequest{
		Locations: []CoverageLocation{{Lat: 48.86, Lng: 2.35}, {Lat: 51.51, Lng: -0.13}},
		Radius:    300,
	})
	require.NoError(t, err)
	assert.Equal(t, "job-42", job.JobID)
	assert.Equal(t, http.MethodPost, srv.method)
	assert.Equal(t, "/coverages/global/predictions/bulk", srv.path)
	assert.JSONEq(t, `{"locations":[{"lat":48.86,"lng":2.35},{"lat":51.51,"lng":-0.13}],"radius":300}`, string(srv.body))
}

func TestCoverageStartBulkPredictionRequiresLocations(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"jobId":"job-42"}`)
	_, err := newTestClient(srv).Coverages.StartBulkPrediction(context.Background(), CoverageBulkRequest{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Empty(t, srv.method)
}

func TestCoverageBulkPrediction(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{
		"jobDone": true,
		"results": [{"lat": 48.86, "lng": 2.35, "locationCovered": true, "margins": [42, 27, 11]}]
	}`)

	resp, err := newTestClient(srv).Coverages.BulkPrediction(context.Background(), "job-42")
	require.NoError(t, err)
	assert.True(t, resp.JobDone)
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].LocationCovered)
	assert.Equal(t, []float64{42, 27, 11}, resp.Results[0].Margins)
	assert.Equal(t, "/coverages/global/predictions/bulk/job-42", srv.path)
}

func TestCoverageOperatorRedundancy(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"redundancy":3}`)

	red, err := newTestClient(srv).Coverages.OperatorRedundancy(context.Background(), RedundancyQuery{
		Lat:             48.8566,
		Lng:             2.3522,
		DeviceSituation: "OUTDOOR",
		DeviceClassID:   Int(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, red.Redundancy)
	assert.Equal(t, "/coverages/operators/redundancy", srv.path)
	assert.Equal(t, []string{"48.8566"}, srv.query["lat"])
	assert.Equal(t, []string{"OUTDOOR"}, srv.query["deviceSituation"])
	// Class 0 is a real device class, not an unset field.
	assert.Equal(t, []string{"0"}, srv.query["deviceClassId"])
}

func TestGroupCreateDefaultsType(t *testing.T) {
	srv := newStubServer(t, http.StatusCreated, `{"id":"g-1"}`)

	_, err := newTestClient(srv).Groups.Create(context.Background(), GroupCreate{
		Name:        "fleet",
		Description: "test fleet",
		Timezone:    "Europe/Paris",
		ParentID:    "root",
	})
	require.NoError(t, err)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(srv.body, &sent))
	assert.Equal(t, float64(2), sent["type"])
}
