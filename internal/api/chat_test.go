package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/diogo/personachat/internal/errors"
	"github.com/diogo/personachat/internal/models"
)

func chatRequest(message string) models.ChatRequest {
	return models.ChatRequest{Message: message, Persona: "movie_expert"}
}

func newTestClient(t *testing.T, mock *MockHttpClient) *Client {
	t.Helper()
	client, err := NewClient("https://chat.example.com", WithHTTPClient(mock))
	require.NoError(t, err)
	return client
}

func TestSend_Request(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"response":"Hello"}`), 200)
	client := newTestClient(t, mock)

	ctx := WithRequestID(context.Background(), "req-1")
	_, err := client.Send(ctx, models.ChatRequest{Message: "Hi there", Persona: "travel_guide"})
	require.NoError(t, err)

	req := mock.LastRequest
	require.NotNil(t, req)
	assert.Equal(t, fhttp.MethodPost, req.Method)
	assert.Equal(t, "https://chat.example.com/chat", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "req-1", req.Header.Get("X-Request-ID"))
	assert.Equal(t, models.DefaultUserAgent, req.Header.Get("User-Agent"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(mock.LastBody, &body))
	assert.Equal(t, map[string]string{"message": "Hi there", "persona": "travel_guide"}, body)
}

func TestSend_NoRequestIDHeaderWithoutID(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"response":"ok"}`), 200)
	client := newTestClient(t, mock)

	_, err := client.Send(context.Background(), chatRequest("hi"))
	require.NoError(t, err)
	assert.Empty(t, mock.LastRequest.Header.Get("X-Request-ID"))
}

func TestSend_Success(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"plain reply", `{"response":"Hello"}`, "Hello"},
		{"markup is kept verbatim", `{"response":"**bold** <b>x</b>"}`, "**bold** <b>x</b>"},
		{"extra fields ignored", `{"response":"Hi","model":"x"}`, "Hi"},
		{"empty reply", `{"response":""}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, NewMockHttpClient([]byte(tt.body), 200))

			resp, err := client.Send(context.Background(), chatRequest("hi"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Response)
		})
	}
}

func TestSend_ResponseBodyClosed(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"response":"Hello"}`), 200)
	client := newTestClient(t, mock)

	_, err := client.Send(context.Background(), chatRequest("hi"))
	require.NoError(t, err)
	assert.True(t, mock.Response.Body.(*MockResponseBody).closed)
}

func TestSend_MalformedSuccessBody(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantNoField bool
	}{
		{name: "html", body: "<html>oops</html>"},
		{name: "truncated", body: `{"response":`},
		{name: "missing field", body: `{"reply":"hi"}`, wantNoField: true},
		{name: "null field", body: `{"response":null}`, wantNoField: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, NewMockHttpClient([]byte(tt.body), 200))

			resp, err := client.Send(context.Background(), chatRequest("hi"))
			assert.Nil(t, resp)
			require.Error(t, err)
			assert.True(t, apierrors.IsParseError(err))
			assert.Equal(t, tt.wantNoField, errors.Is(err, apierrors.ErrNoContent))
		})
	}
}

func TestSend_ServerError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"error field", 503, `{"error":"busy"}`, "busy"},
		{"persona rejected", 400, `{"error":"Invalid persona."}`, "Invalid persona."},
		{"no body", 502, ``, "Bad Gateway"},
		{"html body", 500, `<h1>Internal</h1>`, "Internal Server Error"},
		{"json without error", 404, `{"detail":"nope"}`, "Not Found"},
		{"error not a string", 500, `{"error":{"code":1}}`, "Internal Server Error"},
		{"blank error", 429, `{"error":"  "}`, "Too Many Requests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, NewMockHttpClient([]byte(tt.body), tt.status))

			resp, err := client.Send(context.Background(), chatRequest("hi"))
			assert.Nil(t, resp)
			require.Error(t, err)

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.ServerMessage())
			assert.Equal(t, tt.body, apiErr.Body)
			assert.Equal(t, "https://chat.example.com/chat", apiErr.Endpoint)
		})
	}
}

func TestSend_StatusTextWithoutReasonPhrase(t *testing.T) {
	mock := NewMockHttpClient(nil, 503)
	mock.Response.Status = "503"
	client := newTestClient(t, mock)

	_, err := client.Send(context.Background(), chatRequest("hi"))

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Service Unavailable", apiErr.Status)
}

func TestSend_TransportErrors(t *testing.T) {
	t.Run("network failure", func(t *testing.T) {
		client := newTestClient(t, NewMockHttpClientWithError(errors.New("connection refused")))

		_, err := client.Send(context.Background(), chatRequest("hi"))
		require.Error(t, err)
		assert.True(t, apierrors.IsNetworkError(err))
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("body read failure", func(t *testing.T) {
		mock := NewMockHttpClient(nil, 200)
		mock.Response.Body = errReader{err: errors.New("reset by peer")}
		client := newTestClient(t, mock)

		_, err := client.Send(context.Background(), chatRequest("hi"))
		require.Error(t, err)
		assert.True(t, apierrors.IsNetworkError(err))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		mock := &MockHttpClient{DoFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			cancel()
			return nil, req.Context().Err()
		}}
		client := newTestClient(t, mock)

		_, err := client.Send(ctx, chatRequest("hi"))
		require.Error(t, err)
		assert.True(t, apierrors.IsCancelled(err))
	})

	t.Run("deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 0)
		defer cancel()
		client := newTestClient(t, NewMockHttpClientWithError(context.DeadlineExceeded))

		_, err := client.Send(ctx, chatRequest("hi"))
		require.Error(t, err)
		assert.True(t, apierrors.IsTimeoutError(err))
	})
}
