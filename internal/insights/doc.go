// Package insights holds the pure aggregation engine: metric calculators,
// lifetime value, trend and anomaly detection and co-purchase ranking.
//
// Every function here works on rows already fetched from the store and
// returns native Go values. Nothing in this package performs I/O, keeps
// state between calls or formats values for the wire.
package insights
