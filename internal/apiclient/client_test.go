package apiclient

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

type staticToken string

func (s staticToken) AccessToken(context.Context) (string, error) {
	return string(s), nil
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestEnvelopeReturnedVerbatim(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"code":1000,"message":"created","data":{"id":7,"tags":["a","b"]}}`)
	})

	env, err := New(srv.URL).Post(context.Background(), "/things", map[string]string{"name": "x"})
	require.NoError(t, err)

	assert.Equal(t, 1000, env.Code)
	assert.Equal(t, "created", env.Message)
	assert.JSONEq(t, `{"id":7,"tags":["a","b"]}`, string(env.Data))

	type thing struct {
		ID   int      `json:"id"`
		Tags []string `json:"tags"`
	}
	decoded, err := Decode[thing](env)
	require.NoError(t, err)
	assert.Equal(t, thing{ID: 7, Tags: []string{"a", "b"}}, decoded)
}

func TestNonConformingPayloadIsWrapped(t *testing.T) {
	payloads := []string{
		`[1,2,3]`,
		`{"id":5,"name":"bare"}`,
		`{"code":5}`,
		`"text"`,
	}
	for _, payload := range payloads {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, payload)
		})

		env, err := New(srv.URL).Get(context.Background(), "/raw")
		require.NoError(t, err, payload)
		assert.Equal(t, http.StatusOK, env.Code, payload)
		assert.Equal(t, "Success", env.Message, payload)
		assert.JSONEq(t, payload, string(env.Data), payload)
	}
}

func TestEmptyBodyIsWrapped(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	env, err := New(srv.URL).Delete(context.Background(), "/things/1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, env.Code)
	assert.Equal(t, "null", string(env.Data))
}

func TestAuthorizationHeader(t *testing.T) {
	var seen []string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		_, _ = io.WriteString(w, `{"code":200,"message":"ok","data":null}`)
	})

	_, err := New(srv.URL, WithTokenSource(staticToken("abc"))).Get(context.Background(), "/x")
	require.NoError(t, err)
	_, err = New(srv.URL, WithTokenSource(staticToken(""))).Get(context.Background(), "/x")
	require.NoError(t, err)
	_, err = New(srv.URL).Get(context.Background(), "/x")
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer abc", "", ""}, seen)
}

func TestRequestBodyIsJSON(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "v", body["k"])
		_, _ = io.WriteString(w, `{"code":200,"message":"ok","data":true}`)
	})

	env, err := New(srv.URL+"/").Patch(context.Background(), "/x", map[string]string{"k": "v"})
	require.NoError(t, err)
	ok, err := Decode[bool](env)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestErrorEnvelope(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":4001,"message":"Email already exists","errors":["email taken"]}`)
	})

	_, err := New(srv.URL).Post(context.Background(), "/employees", nil)
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 4001, apiErr.Code)
	assert.Equal(t, "Email already exists", apiErr.Message)
	assert.Equal(t, []string{"email taken"}, apiErr.Errors)
	assert.Equal(t, KindHTTP, apiErr.Kind)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestUnparsableErrorBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := New(srv.URL).Get(context.Background(), "/x")
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.Code)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestUnauthorized(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"token expired"}`)
	})

	_, err := New(srv.URL).Get(context.Background(), "/x")
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.Unauthorized())
	assert.Equal(t, http.StatusUnauthorized, apiErr.Code)
	assert.Equal(t, "token expired", apiErr.Message)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).Get(context.Background(), "/slow")
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Code)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Get(context.Background(), "/x")
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, apiErr.Kind)
	assert.NotEmpty(t, apiErr.Message)
}

func TestInvalidJSONSuccessBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "plain text")
	})

	_, err := New(srv.URL).Get(context.Background(), "/x")
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, KindDecode, apiErr.Kind)
}
