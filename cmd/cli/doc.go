// Package cli assembles the treestatus command line application: the root
// command, persistent flags, configuration loading, and logger lifecycle.
package cli
