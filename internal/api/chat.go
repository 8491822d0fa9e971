package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/personachat/internal/errors"
	"github.com/diogo/personachat/internal/models"
)

// Send posts one message to the chat endpoint and returns the reply.
// It never retries.
func (c *Client) Send(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	endpoint := c.ChatEndpoint()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		httpReq.Header.Set(key, value)
	}
	if c.userAgent != "" {
		httpReq.Header.Set(models.HeaderUserAgent, c.userAgent)
	}
	requestID := RequestIDFromContext(ctx)
	if requestID != "" {
		httpReq.Header.Set(models.HeaderRequestID, requestID)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("persona", req.Persona).
		Str("endpoint", endpoint).
		Msg("sending chat request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(ctx, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, endpoint, err)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("chat response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serverError(resp, endpoint, body)
	}

	return parseChatResponse(body)
}

// transportError classifies a failure to complete the exchange
func transportError(ctx context.Context, endpoint string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", apierrors.ErrCancelled, err)
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return apierrors.NewTimeoutErrorWithEndpoint(endpoint, err)
	default:
		return apierrors.NewNetworkErrorWithEndpoint("send", endpoint, err)
	}
}

// serverError builds an APIError from a non-2xx answer. The body's "error"
// field is used when present, the HTTP status text otherwise.
func serverError(resp *http.Response, endpoint string, body []byte) error {
	status := statusText(resp)

	message := ""
	if gjson.ValidBytes(body) {
		if field := gjson.GetBytes(body, "error"); field.Exists() && field.Type == gjson.String {
			message = strings.TrimSpace(field.String())
		}
	}
	if message == "" {
		message = status
	}

	return apierrors.NewAPIErrorWithBody(resp.StatusCode, status, endpoint, message, string(body))
}

// statusText returns the reason phrase of resp, e.g. "Service Unavailable"
func statusText(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}

// parseChatResponse extracts the reply from a 2xx body
func parseChatResponse(body []byte) (*models.ChatResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response body is not valid JSON", "body")
	}

	field := gjson.GetBytes(body, "response")
	if !field.Exists() || field.Type == gjson.Null {
		return nil, apierrors.NewMissingFieldError("response")
	}

	return &models.ChatResponse{Response: field.String()}, nil
}
