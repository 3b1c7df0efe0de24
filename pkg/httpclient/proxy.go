// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

package httpclient

import (
	"net/url"
	"strings"

	"github.com/absmach/supermq/pkg/errors"
)

// ErrProxyParse indicates the configured proxy URL could not be parsed.
var ErrProxyParse = errors.New("failed to parse proxy URL")

var errProxyHost = errors.New("proxy URL has no host")

// ResolveProxy parses raw into a proxy URL. An empty value means a direct
// connection. Scheme-less host:port values are treated as http proxies. A
// present but malformed value is always an error, never a silent fall back
// to a direct connection. Scheme suitability is the client factory's concern.
func ResolveProxy(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(ErrProxyParse, err)
	}
	if u.Hostname() == "" {
		return nil, errors.Wrap(ErrProxyParse, errProxyHost)
	}

	return u, nil
}
