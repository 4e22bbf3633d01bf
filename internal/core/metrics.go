// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package core

import "github.com/prometheus/client_golang/prometheus"

// TurnsResolved is the counter for resolved turns by kind.
// Use RegisterMetrics to register this with a Prometheus registry.
var TurnsResolved = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chronicle_turns_resolved_total",
		Help: "Total turns resolved by kind",
	},
	[]string{"kind"},
)

// MonstersSpawned is the counter for spawned monsters.
// Use RegisterMetrics to register this with a Prometheus registry.
var MonstersSpawned = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "chronicle_monsters_spawned_total",
		Help: "Total monsters spawned",
	},
)

// MonstersDefeated is the counter for defeated monsters.
// Use RegisterMetrics to register this with a Prometheus registry.
var MonstersDefeated = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "chronicle_monsters_defeated_total",
		Help: "Total monsters defeated",
	},
)

// SnapshotsPublished is the counter for snapshots sent over the relay.
// Use RegisterMetrics to register this with a Prometheus registry.
var SnapshotsPublished = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "chronicle_snapshots_published_total",
		Help: "Total state snapshots published to the relay",
	},
)

// SnapshotsApplied is the counter for snapshots applied from the relay.
// Use RegisterMetrics to register this with a Prometheus registry.
var SnapshotsApplied = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "chronicle_snapshots_applied_total",
		Help: "Total state snapshots applied from the relay",
	},
)

// Turn kinds for TurnsResolved.
const (
	TurnKindSubmit  = "submit"
	TurnKindTimeout = "timeout"
	TurnKindMove    = "move"
)

// RegisterMetrics registers core metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(TurnsResolved)
	reg.MustRegister(MonstersSpawned)
	reg.MustRegister(MonstersDefeated)
	reg.MustRegister(SnapshotsPublished)
	reg.MustRegister(SnapshotsApplied)
}
