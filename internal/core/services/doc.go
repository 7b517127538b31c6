// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Mutations of one owner's manual are serialised in-process by
// ManualService; run a single writer process per data directory.
package services
