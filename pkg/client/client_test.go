package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	var gotBody map[string]any
	var gotAPIKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/admin/generate-license", r.URL.Path)
		gotAPIKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"licenseKey": "VDP-0A1B2C3D-AABBCC-42",
			"expirationDate": "2024-03-31",
			"macAddress": "AA:BB:CC:11:22:33",
			"createdAt": "2024-03-01T10:30:00Z",
			"message": "Licence générée avec succès"
		}`))
	}))
	defer server.Close()

	c := New(server.URL, WithAPIKey("0123456789abcdef0123456789abcdef"))

	record, err := c.Generate(context.Background(), "AA:BB:CC:11:22:33", 30)
	require.NoError(t, err)

	assert.Equal(t, "VDP-0A1B2C3D-AABBCC-42", record.LicenseKey)
	assert.Equal(t, "2024-03-31", record.ExpirationDate)
	assert.True(t, record.Success)

	assert.Equal(t, "0123456789abcdef0123456789abcdef", gotAPIKey)
	assert.Equal(t, "AA:BB:CC:11:22:33", gotBody["macAddress"])
	assert.Equal(t, float64(30), gotBody["durationDays"])
}

func TestGenerateOmitsEmptyMac(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasMac := body["macAddress"]
		assert.False(t, hasMac, "empty MAC must be omitted, not sent as empty string")

		w.Write([]byte(`{"success":true,"licenseKey":"VDP-0A1B2C3D-GLB-7","macAddress":"Globale"}`))
	}))
	defer server.Close()

	record, err := New(server.URL).Generate(context.Background(), "", 30)
	require.NoError(t, err)
	assert.Equal(t, "Globale", record.MacAddress)
}

func TestGenerateValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"La durée de validité est requise."}`))
	}))
	defer server.Close()

	_, err := New(server.URL).Generate(context.Background(), "", 0)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, "La durée de validité est requise.", httpErr.Message)
}

func TestGenerateServerFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"Erreur serveur."}`))
	}))
	defer server.Close()

	_, err := New(server.URL).Generate(context.Background(), "", 30)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "Erreur serveur.", httpErr.Message)
}

func TestLicenses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/licenses", r.URL.Path)
		w.Write([]byte(`{"success":true,"count":1,"licenses":[{"success":true,"licenseKey":"VDP-0A1B2C3D-GLB-7"}]}`))
	}))
	defer server.Close()

	records, err := New(server.URL).Licenses(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "VDP-0A1B2C3D-GLB-7", records[0].LicenseKey)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"running"}`))
	}))
	defer server.Close()

	assert.NoError(t, New(server.URL).Health(context.Background()))
}

func TestHealthUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"degraded"}`))
	}))
	defer server.Close()

	err := New(server.URL).Health(context.Background())
	require.Error(t, err)

	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr), "a 200 with a bad status is not an HTTP error")
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(server.URL).Generate(ctx, "", 30)
	assert.Error(t, err)
}
