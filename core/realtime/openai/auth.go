package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// fetchClientSecret trades the long-lived API key for a short-lived session
// credential. The credential goes into the socket handshake, never into
// message bodies.
func (c *Client) fetchClientSecret(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "fetch realtime client secret")
	defer span.End()

	apiKey := c.options.apiKey
	if apiKey == "" {
		var ok bool
		if apiKey, ok = os.LookupEnv("OPENAI_API_KEY"); !ok {
			return "", fmt.Errorf("%w: openai api key not found", ErrAuthRequired)
		}
	}

	reqBody, err := json.Marshal(struct {
		Session struct {
			Type  string `json:"type"`
			Model string `json:"model"`
		} `json:"session"`
	}{Session: struct {
		Type  string `json:"type"`
		Model string `json:"model"`
	}{Type: "realtime", Model: c.options.model}})
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %w", ErrAuthRequired, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.options.baseURL+"/v1/realtime/client_secrets", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("%w: failed to build request: %w", ErrAuthRequired, err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.options.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthRequired, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: token endpoint returned %d: %s", ErrAuthRequired, resp.StatusCode, body)
	}

	var parsed struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: failed to decode token response: %w", ErrAuthRequired, err)
	}
	if parsed.Value == "" {
		return "", fmt.Errorf("%w: token endpoint returned an empty credential", ErrAuthRequired)
	}

	return parsed.Value, nil
}
