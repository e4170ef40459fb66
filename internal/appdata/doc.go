// Package appdata provides a small JSON document store for local application
// data (saved stories, settings). It sits outside the task orchestration core.
package appdata
