// Package game implements the blackjack round engine: hand evaluation,
// participant state, turn sequencing, the betting ledger and the event bus
// that keeps external observers (UI clients, persistence, automated agents)
// consistent with engine state.
//
// The engine is single-threaded in the logical sense: every mutation happens
// inside an action call (Hit, Stand, DoubleDown, Start) under the engine
// mutex. The only suspension point is the deferred decision of an automated
// participant, scheduled on an injected clock and re-validated against the
// round identity before it acts.
package game
