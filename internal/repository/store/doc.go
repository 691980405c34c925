// Package store implements the durable relational persistence behind the
// alert workflow: the condition feed written by the sensor pipeline, the
// append-only decision ledger, the reminder queue and the raw sensor
// readings used by the dashboard.
//
// Timestamps are persisted as fixed-width "YYYY-MM-DD HH:MM:SS" strings so
// lexicographic comparison in SQL matches chronological order.
package store
