// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"net/http"
)

const (
	contentType = "application/health+json"
	svcStatus   = "pass"
)

// Version represents the last service git tag in git history.
// It's meant to be set using go build flags.
var Version = "0.0.0"

// HealthInfo contains the health check response body.
type HealthInfo struct {
	// Status contains the service status.
	Status string `json:"status"`

	// Version contains the current service version.
	Version string `json:"version"`

	// Service contains the service name.
	Service string `json:"service"`

	// Description contains the service description.
	Description string `json:"description"`

	// InstanceID contains the ID of the running service instance.
	InstanceID string `json:"instance_id"`
}

// Health returns a health check handler for the named service.
func Health(service, description, instanceID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := HealthInfo{
			Status:      svcStatus,
			Version:     Version,
			Service:     service,
			Description: description,
			InstanceID:  instanceID,
		}

		w.Header().Set("Content-Type", contentType)
		if err := json.NewEncoder(w).Encode(res); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
