// Package filter contains core domain types for the air-filter alert logic.
//
// It defines the condition events produced by the sensor pipeline, the
// operator's standing ON/OFF decision, the append-only processed-action
// ledger entries, scheduled reminders, and the session flags that describe
// which dialog the operator currently sees.
package filter
