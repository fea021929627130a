// Package webapi exposes pipeline artifacts, debt restructuring
// simulations, and opportunity cost calculations over HTTP with chi.
package webapi
