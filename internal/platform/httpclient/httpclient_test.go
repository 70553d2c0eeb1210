package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDo_JSONRoundTripWithFixedHeaders(t *testing.T) {
	var seen *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"got": in["name"]})
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", 0, WithHeader("apikey", "k"))
	require.NoError(t, err)

	var out struct {
		Got string `json:"got"`
	}
	err = c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "v1/echo",
		Header: map[string]string{"Authorization": "Bearer t"},
		JSON:   map[string]string{"name": "luna"},
	}, &out)
	require.NoError(t, err)
	require.Equal(t, "luna", out.Got)

	require.Equal(t, "/v1/echo", seen.URL.Path)
	require.Equal(t, "k", seen.Header.Get("apikey"))
	require.Equal(t, "Bearer t", seen.Header.Get("Authorization"))
	require.Equal(t, "application/json", seen.Header.Get("Content-Type"))
}

func TestDo_RawBody(t *testing.T) {
	var contentType, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, 0)
	require.NoError(t, err)

	err = c.Do(context.Background(), Request{
		Method:      http.MethodPost,
		Path:        "/upload",
		Body:        strings.NewReader("PNG"),
		ContentType: "image/png",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, "image/png", contentType)
	require.Equal(t, "PNG", body)
}

func TestDo_Non2xxIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(srv.URL, 0)
	require.NoError(t, err)

	err = c.Do(context.Background(), Request{Path: "/x"}, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, StatusCode(err))
	require.Contains(t, err.Error(), "nope")
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New("not a url", 0)
	require.Error(t, err)
}
