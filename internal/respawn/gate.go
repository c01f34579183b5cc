package respawn

import (
	"log/slog"

	"github.com/udisondev/dungeonrespawn/internal/model"
)

// Reason identifies the gate branch that produced a verdict.
type Reason int32

const (
	ReasonDisabled      Reason = iota // Feature switched off
	ReasonMissingPlayer               // Host passed no player
	ReasonNotInInstance               // Player is outside dungeon/raid
	ReasonAlive                       // Player is not dead
	ReasonNotQueued                   // No pending redirect for player
	ReasonNoRecord                    // Tracker has no record (unreachable)
	ReasonNoEntrance                  // Entrance never recorded
	ReasonStaleEntrance               // Entrance belongs to another map
	ReasonRedirect                    // Teleport replaced by entrance redirect
)

// String returns a human-readable reason name.
func (r Reason) String() string {
	switch r {
	case ReasonDisabled:
		return "disabled"
	case ReasonMissingPlayer:
		return "missing_player"
	case ReasonNotInInstance:
		return "not_in_instance"
	case ReasonAlive:
		return "alive"
	case ReasonNotQueued:
		return "not_queued"
	case ReasonNoRecord:
		return "no_record"
	case ReasonNoEntrance:
		return "no_entrance"
	case ReasonStaleEntrance:
		return "stale_entrance"
	case ReasonRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Verdict is the gate's answer for one teleport request.
type Verdict struct {
	Reason Reason
	// Entrance is the redirect target; set only for ReasonRedirect.
	Entrance model.Entrance
}

// Allow reports whether the host should perform the requested teleport.
func (v Verdict) Allow() bool {
	return v.Reason != ReasonRedirect
}

func allow(r Reason) Verdict {
	return Verdict{Reason: r, Entrance: model.EmptyEntrance()}
}

// Gate decides whether an outgoing teleport is allowed or replaced by a
// redirect to the recorded entrance. Every uncertain branch allows.
// Not safe for concurrent use: Module serializes all access.
type Gate struct {
	tracker *Tracker
	queue   *Queue

	enabled bool
	debug   bool
}

// NewGate creates a disabled gate over the given tracker and queue.
func NewGate(tracker *Tracker, queue *Queue) *Gate {
	return &Gate{tracker: tracker, queue: queue}
}

// Configure switches the feature and decision tracing on or off.
func (g *Gate) Configure(enabled, debug bool) {
	g.enabled = enabled
	g.debug = debug
}

// Enabled reports whether interception is active.
func (g *Gate) Enabled() bool {
	return g.enabled
}

// Evaluate runs the decision procedure for a teleport of p to destMapID.
// A queued entry for p is consumed whenever the procedure reaches it,
// regardless of the verdict.
func (g *Gate) Evaluate(p model.Player, destMapID int32) Verdict {
	if !g.enabled {
		return allow(ReasonDisabled)
	}
	if p == nil {
		return allow(ReasonMissingPlayer)
	}

	// Seeds the transition flag for the map change that follows.
	g.tracker.TeleportRequested(p, destMapID)

	if !p.MapKind().IsInstance() {
		g.trace("not in dungeon/raid, allowing teleport", p)
		return allow(ReasonNotInInstance)
	}
	if !p.IsDead() {
		g.trace("not dead, allowing teleport", p)
		return allow(ReasonAlive)
	}

	g.trace("checking teleport queue", p, "queueSize", g.queue.Len())
	if !g.queue.DequeueIfPresent(p.CharacterID()) {
		g.trace("not in queue, allowing teleport", p)
		return allow(ReasonNotQueued)
	}
	g.trace("found in queue, intercepting teleport", p)

	rec, ok := g.tracker.Lookup(p.CharacterID())
	if !ok {
		return allow(ReasonNoRecord)
	}
	if !rec.Entrance.IsSet() {
		g.trace("no entrance recorded, allowing teleport", p)
		return allow(ReasonNoEntrance)
	}
	if rec.Entrance.MapID != p.MapID() {
		g.trace("entrance on another map, allowing teleport", p,
			"entranceMapID", rec.Entrance.MapID)
		return allow(ReasonStaleEntrance)
	}

	g.trace("teleporting to entrance and resurrecting, blocking graveyard teleport", p,
		"mapID", rec.Entrance.MapID,
		"x", rec.Entrance.X,
		"y", rec.Entrance.Y,
		"z", rec.Entrance.Z)
	return Verdict{Reason: ReasonRedirect, Entrance: rec.Entrance}
}

func (g *Gate) trace(msg string, p model.Player, args ...any) {
	if !g.debug {
		return
	}
	attrs := append([]any{"character", p.Name(), "characterID", p.CharacterID()}, args...)
	slog.Info("dungeon respawn: "+msg, attrs...)
}
