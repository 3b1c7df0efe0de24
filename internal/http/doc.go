// Package http contains HTTP utility methods common for
// services running an HTTP server, such as the healthcheck
// endpoint and the API response contract.

package http
