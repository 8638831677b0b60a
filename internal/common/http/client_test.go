package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get_SendsAcceptHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := NewClient(0, nil)
	resp, err := client.Get(context.Background(), server.URL+"/customer/1", "/customer/{id}")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}

func TestClient_Get_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(50*time.Millisecond, nil)
	resp, err := client.Get(context.Background(), server.URL, "/")
	if resp != nil {
		resp.Body.Close()
	}

	assert.Error(t, err)
}

func TestClient_Get_BadURL(t *testing.T) {
	client := NewClient(0, nil)
	_, err := client.Get(context.Background(), "http://[::1", "/")
	assert.Error(t, err)
}

func TestEscapePathSegment(t *testing.T) {
	tests := map[string]string{
		"12345":             "12345",
		"A&B":               "A%26B",
		"HERB MARKER THYME": "HERB%20MARKER%20THYME",
		"a/b":               "a%2Fb",
		"x?y#z":             "x%3Fy%23z",
		"1+1=2":             "1%2B1%3D2",
		"100%":              "100%25",
	}

	for in, want := range tests {
		assert.Equal(t, want, EscapePathSegment(in), in)
	}
}
