// Copyright (c) Ultraviolet
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"fmt"
	"log/slog"
)

// Stage identifies where in its lifecycle a connection test is.
type Stage int

const (
	Received Stage = iota
	MaterialLoading
	Decoding
	ClientBuilding
	Requesting
	Succeeded
	Failed
)

func (s Stage) String() string {
	switch s {
	case Received:
		return "received"
	case MaterialLoading:
		return "material_loading"
	case Decoding:
		return "decoding"
	case ClientBuilding:
		return "client_building"
	case Requesting:
		return "requesting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// stageTransitions lists the allowed next stages per stage. The terminal
// stages allow nothing.
var stageTransitions = map[Stage][]Stage{
	Received:        {MaterialLoading, Failed},
	MaterialLoading: {Decoding, Failed},
	Decoding:        {ClientBuilding, Failed},
	ClientBuilding:  {Requesting, Failed},
	Requesting:      {Succeeded, Failed},
}

// stageTracker follows a single connection test through its stages, logging
// every transition. It is owned by one invocation and needs no locking.
type stageTracker struct {
	current Stage
	logger  *slog.Logger
}

func newStageTracker(logger *slog.Logger) *stageTracker {
	return &stageTracker{current: Received, logger: logger}
}

func (t *stageTracker) advance(next Stage) error {
	for _, allowed := range stageTransitions[t.current] {
		if allowed != next {
			continue
		}
		t.logger.Debug("stage transition",
			slog.String("from", t.current.String()),
			slog.String("to", next.String()))
		t.current = next

		return nil
	}

	return fmt.Errorf("invalid stage transition: %v -> %v", t.current, next)
}

func (t *stageTracker) stage() Stage {
	return t.current
}
