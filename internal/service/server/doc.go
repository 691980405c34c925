// Package server runs the filterwatch daemon: it loads configuration, opens
// the sensor database, restores the dialog session, serves the operator API,
// and drives the periodic evaluation loop.
package server
