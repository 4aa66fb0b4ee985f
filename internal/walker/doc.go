// Package walker discovers nested git working copies beneath a root
// directory and assembles them into a depth-bounded report tree.
package walker
