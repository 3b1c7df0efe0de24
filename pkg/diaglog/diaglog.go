// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

// Package diaglog provides the diagnostic buffer that collects connection and
// handshake traces produced while a probe runs. One Log is shared by every
// invocation in the process and accumulates until explicitly cleared.
package diaglog

import (
	"bytes"
	"time"

	"github.com/absmach/supermq/pkg/errors"
)

// ErrLogAccess indicates the diagnostic log lock could not be acquired.
var ErrLogAccess = errors.New("failed to access diagnostic log")

const lockWait = 5 * time.Second

// Log is an append-only text buffer. Access is serialized through a unary
// semaphore with bounded acquisition, so a wedged holder surfaces as
// ErrLogAccess instead of blocking readers indefinitely. The lock is held
// only around buffer mutation, never across network I/O.
type Log struct {
	sem  chan struct{}
	wait time.Duration
	buf  bytes.Buffer
}

// New returns an empty diagnostic log.
func New() *Log {
	return &Log{
		sem:  make(chan struct{}, 1),
		wait: lockWait,
	}
}

func (l *Log) acquire() error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-time.After(l.wait):
		return ErrLogAccess
	}
}

func (l *Log) release() {
	<-l.sem
}

// Append adds text to the buffer.
func (l *Log) Append(text string) error {
	if err := l.acquire(); err != nil {
		return err
	}
	defer l.release()

	l.buf.WriteString(text)

	return nil
}

// Write implements io.Writer so log handlers can emit directly into the buffer.
func (l *Log) Write(p []byte) (int, error) {
	if err := l.acquire(); err != nil {
		return 0, err
	}
	defer l.release()

	return l.buf.Write(p)
}

// Snapshot returns a copy of the current content.
func (l *Log) Snapshot() (string, error) {
	if err := l.acquire(); err != nil {
		return "", err
	}
	defer l.release()

	return l.buf.String(), nil
}

// Clear empties the buffer.
func (l *Log) Clear() error {
	if err := l.acquire(); err != nil {
		return err
	}
	defer l.release()

	l.buf.Reset()

	return nil
}
