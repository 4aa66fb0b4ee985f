// Package render turns a discovery report tree into color-coded,
// indentation-based text output.
package render
