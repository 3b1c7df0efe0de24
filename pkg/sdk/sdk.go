// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

// Package sdk provides an HTTP client for the connection test service API.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/absmach/supermq/pkg/errors"
	"github.com/ultravioletrs/mtlscheck/probe"
)

var (
	// ErrProbeFailed indicates the service reported a failed connection test.
	ErrProbeFailed = errors.New("connection test failed")
	// ErrDiagnostics indicates the diagnostic transcript could not be accessed.
	ErrDiagnostics = errors.New("failed to access diagnostics")
	// ErrInvalidResponse indicates the service returned an invalid response.
	ErrInvalidResponse = errors.New("invalid response from service")
)

// Config holds configuration for the service client.
type Config struct {
	// URL is the service endpoint (e.g., "http://localhost:7001")
	URL string
	// Timeout for HTTP requests
	Timeout time.Duration
}

type probeResponse struct {
	Success bool   `json:"success"`
	Logdata string `json:"logdata"`
}

type diagnosticsResponse struct {
	Logdata string `json:"logdata"`
}

type errorResponse struct {
	Error   string  `json:"error"`
	Logdata *string `json:"logdata"`
}

type serviceClient struct {
	config Config
	client *http.Client
}

var _ probe.Service = (*serviceClient)(nil)

// NewSDK creates a probe.Service backed by a remote connection test service.
func NewSDK(config Config) probe.Service {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &serviceClient{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Probe submits one connection test and returns the diagnostic snapshot the
// service produced for it, in success and failure alike.
func (c *serviceClient) Probe(ctx context.Context, request probe.ConnectionRequest) (string, error) {
	url := fmt.Sprintf("%s/probe", c.config.URL)

	reqBody, err := json.Marshal(request)
	if err != nil {
		return "", errors.Wrap(ErrProbeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", errors.Wrap(ErrProbeFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(ErrProbeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return serviceError(resp, ErrProbeFailed)
	}

	var probeResp probeResponse
	if err := json.NewDecoder(resp.Body).Decode(&probeResp); err != nil {
		return "", errors.Wrap(ErrInvalidResponse, err)
	}

	return probeResp.Logdata, nil
}

// Diagnostics retrieves the cumulative diagnostic transcript.
func (c *serviceClient) Diagnostics(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/diagnostics", c.config.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(ErrDiagnostics, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(ErrDiagnostics, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, err := serviceError(resp, ErrDiagnostics)
		return "", err
	}

	var diagResp diagnosticsResponse
	if err := json.NewDecoder(resp.Body).Decode(&diagResp); err != nil {
		return "", errors.Wrap(ErrInvalidResponse, err)
	}

	return diagResp.Logdata, nil
}

// ClearDiagnostics empties the diagnostic transcript.
func (c *serviceClient) ClearDiagnostics(ctx context.Context) error {
	url := fmt.Sprintf("%s/diagnostics", c.config.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return errors.Wrap(ErrDiagnostics, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(ErrDiagnostics, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		_, err := serviceError(resp, ErrDiagnostics)
		return err
	}

	return nil
}

// serviceError turns a non-2xx response into the partial transcript it
// carried, if any, and a wrapped sentinel.
func serviceError(resp *http.Response, sentinel error) (string, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(sentinel, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return "", errors.Wrap(sentinel, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body)))
	}

	logdata := ""
	if errResp.Logdata != nil {
		logdata = *errResp.Logdata
	}

	return logdata, errors.Wrap(sentinel, errors.New(errResp.Error))
}
