// Package index defines the nearest-neighbour API over embedding tables and
// picks an implementation: brute-force scan or vantage-point tree.
package index
