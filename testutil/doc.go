// Package testutil provides deterministic fixtures for scanio tests:
// a seeded RNG, random content and region generators, and a call-recording
// mock read file with failure injection.
package testutil
