package homewizard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homewizard-client/internal/domain/model"
)

func TestHTTPTransport_Do(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pw/swlist":
			fmt.Fprintf(w, "  {\"status\":\"ok\",\"method\":%q}\n", r.Method)
		default:
			http.Error(w, "nope", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tr := NewHTTPTransport(time.Second, time.Second)

	body, err := tr.Do(context.Background(), model.MethodPost, srv.URL+"/pw/swlist")
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok","method":"POST"}`, body)

	_, err = tr.Do(context.Background(), model.MethodGet, srv.URL+"/pw/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPTransport_ErrorsOmitURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	tr := NewHTTPTransport(time.Second, time.Second)
	_, err := tr.Do(context.Background(), model.MethodGet, addr+"/topsecret/swlist")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "topsecret")
}
