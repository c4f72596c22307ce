// Package game implements the Ronda engine: capture resolution, the
// bonus and scoring rules, the round/game state machine and the
// heuristic opponent. The presentation layer drives it exclusively
// through StartGame/PlayCard and observes it through immutable
// snapshots; no partial transition is ever visible.
package game
