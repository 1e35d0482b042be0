package qrserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestPayloadEncodeDecode(t *testing.T) {
	payload := Payload{ReservationID: 42, Token: "tok-1"}

	encoded, err := payload.Encode()
	require.NoError(t, err)

	decoded, err := DecodePayload(encoded)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecodePayload_Invalid(t *testing.T) {
	_, err := DecodePayload("%zz")
	assert.Error(t, err)

	_, err = DecodePayload("not-json")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	var gotSize, gotData string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSize = r.URL.Query().Get("size")
		gotData = r.URL.Query().Get("data")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("fake-png"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, 360, noopLogger{})

	png, err := client.Render(context.Background(), Payload{ReservationID: 42, Token: "tok-1"})
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png"), png)

	assert.Equal(t, "360x360", gotSize)
	assert.Contains(t, gotData, `"reservation_id":42`)
	assert.Contains(t, gotData, `"token":"tok-1"`)
}

func TestRender_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, 360, noopLogger{})

	_, err := client.Render(context.Background(), Payload{ReservationID: 42})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestRenderWithGracefulDegradation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, 360, noopLogger{})

	png, err := client.RenderWithGracefulDegradation(context.Background(), Payload{ReservationID: 42, Token: "tok-1"})
	require.ErrorIs(t, err, ErrServiceDegraded)
	assert.NotEmpty(t, png, "local fallback must still produce an image")
}

func TestRenderWithGracefulDegradation_ExternalOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("external-png"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, 360, noopLogger{})

	png, err := client.RenderWithGracefulDegradation(context.Background(), Payload{ReservationID: 42})
	require.NoError(t, err)
	assert.Equal(t, []byte("external-png"), png)
}
