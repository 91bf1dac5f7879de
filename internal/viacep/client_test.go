package viacep_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rodrigoasouza93/cep-form/internal/viacep"
	"github.com/rodrigoasouza93/cep-form/internal/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

const sePayload = `{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP","ddd":"11"}`

func newCep(t *testing.T, value string) *vo.Cep {
	t.Helper()
	cep, err := vo.NewCep(value)
	require.NoError(t, err)
	return cep
}

func TestClient_Lookup(t *testing.T) {
	t.Run("should decode the payload and keep the raw body", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sePayload))
		}))
		defer server.Close()

		client := viacep.NewClient(server.URL+"/ws/", server.Client(), noop.NewTracerProvider().Tracer("test"))
		result, err := client.Lookup(context.Background(), newCep(t, "01001000"))

		require.NoError(t, err)
		assert.Equal(t, "/ws/01001000/json/", gotPath)
		assert.Equal(t, "Praça da Sé", result.Location.Street)
		assert.Equal(t, "São Paulo", result.Location.Locale)
		assert.Equal(t, "11", result.Location.AreaCode)
		assert.Equal(t, sePayload, string(result.Raw))
	})

	t.Run("should return erro payloads as results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"erro": "true"}`))
		}))
		defer server.Close()

		client := viacep.NewClient(server.URL, server.Client(), noop.NewTracerProvider().Tracer("test"))
		result, err := client.Lookup(context.Background(), newCep(t, "99999999"))

		require.NoError(t, err)
		assert.True(t, bool(result.Location.Error))
	})

	t.Run("should fail on unexpected status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("<html>Bad Request</html>"))
		}))
		defer server.Close()

		client := viacep.NewClient(server.URL, server.Client(), noop.NewTracerProvider().Tracer("test"))
		_, err := client.Lookup(context.Background(), newCep(t, "0100.000"))

		assert.True(t, errors.Is(err, viacep.ErrTransport))
	})

	t.Run("should fail on malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := viacep.NewClient(server.URL, server.Client(), noop.NewTracerProvider().Tracer("test"))
		_, err := client.Lookup(context.Background(), newCep(t, "01001000"))

		assert.ErrorIs(t, err, viacep.ErrTransport)
	})

	t.Run("should fail on bodies that are not an object", func(t *testing.T) {
		for _, body := range []string{"null", " null\n", "[]", `"01001000"`, "42"} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))

			client := viacep.NewClient(server.URL, server.Client(), noop.NewTracerProvider().Tracer("test"))
			result, err := client.Lookup(context.Background(), newCep(t, "01001000"))
			server.Close()

			assert.ErrorIs(t, err, viacep.ErrTransport, "body %q", body)
			assert.Nil(t, result, "body %q", body)
		}
	})

	t.Run("should fall back to the global tracer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(sePayload))
		}))
		defer server.Close()

		client := viacep.NewClient(server.URL, server.Client(), nil)
		var result *viacep.Result
		var err error
		assert.NotPanics(t, func() {
			result, err = client.Lookup(context.Background(), newCep(t, "01001000"))
		})
		require.NoError(t, err)
		assert.Equal(t, "SP", result.Location.State)
	})

	t.Run("should fail when the server is unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client := viacep.NewClient(url, nil, noop.NewTracerProvider().Tracer("test"))
		_, err := client.Lookup(context.Background(), newCep(t, "01001000"))

		assert.ErrorIs(t, err, viacep.ErrTransport)
	})
}
