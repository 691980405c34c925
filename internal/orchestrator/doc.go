// Package orchestrator implements the alert/reminder decision state machine.
//
// On every scheduling tick and operator action it consults the condition
// store, the decision ledger and the reminder queue, computes the next
// dialog state, and issues ledger/queue mutations. Store failures never
// abort an evaluation: reads degrade to documented defaults and failed
// writes are logged and retried naturally by the next tick, so a valid
// presentation tuple is always produced.
package orchestrator
