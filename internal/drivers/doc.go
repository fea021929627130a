// Package drivers fits ordinary least squares models explaining the
// deficit-to-GDP ratio from derived fiscal stress features, pooled across
// countries and per focus country, and orders the resulting coefficient
// records so the dominant driver always comes first.
package drivers
