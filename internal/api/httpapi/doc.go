// Package httpapi exposes the operator surface over plain HTTP: the dialog
// view, the action endpoint the browser posts triggers to, the effective fan
// status, and the recent sensor readings backing the dashboard charts.
package httpapi
