package server

import (
	"encoding/json"
	"fmt"

	"github.com/ThryLox/hive-mind/sim"
)

// envelope is the wire shape of an inbound command: a type tag plus the
// union of every command's payload fields.
type envelope struct {
	Type      string           `json:"type"`
	Config    *sim.Config      `json:"config,omitempty"`
	Patch     *sim.ConfigPatch `json:"patch,omitempty"`
	Agents    []sim.Agent      `json:"agents,omitempty"`
	Obstacles []sim.Obstacle   `json:"obstacles,omitempty"`
	Enabled   *bool            `json:"enabled,omitempty"`
}

// DecodeCommand turns one inbound JSON message into an engine command.
func DecodeCommand(data []byte) (sim.Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding command: %w", err)
	}
	switch env.Type {
	case "init":
		cfg := sim.DefaultConfig()
		if env.Config != nil {
			cfg = *env.Config
		}
		return sim.Init{Config: cfg, Agents: env.Agents, Obstacles: env.Obstacles}, nil
	case "reconfigure":
		var patch sim.ConfigPatch
		if env.Patch != nil {
			patch = *env.Patch
		}
		return sim.Reconfigure{Patch: patch}, nil
	case "set_obstacles":
		return sim.SetObstacles{Obstacles: env.Obstacles}, nil
	case "set_debug":
		return sim.SetDebug{Enabled: env.Enabled != nil && *env.Enabled}, nil
	case "set_agents":
		return sim.SetAgents{Agents: env.Agents}, nil
	case "play":
		return sim.Play{}, nil
	case "pause":
		return sim.Pause{}, nil
	case "step":
		return sim.Step{}, nil
	case "reset":
		var cfg sim.Config
		if env.Config != nil {
			cfg = *env.Config
		}
		return sim.Reset{Config: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown command type %q", env.Type)
	}
}

// EncodeEvent wraps an engine event with its wire type tag. The result is
// handed straight to WriteJSON / json.Marshal.
func EncodeEvent(ev sim.Event) (any, error) {
	switch ev := ev.(type) {
	case sim.Ready:
		return struct {
			Type string `json:"type"`
			sim.Ready
		}{Type: "ready", Ready: ev}, nil
	case sim.Snapshot:
		return struct {
			Type string `json:"type"`
			sim.Snapshot
		}{Type: "tick", Snapshot: ev}, nil
	default:
		return nil, fmt.Errorf("unknown event %T", ev)
	}
}
