// Package table provides a small immutable column table used by the SECOM
// loaders.
//
// A Table is an ordered set of named, typed columns plus a row index. The
// column set of a loaded table is only known at runtime (one-hot encoding
// widens it according to the categories observed in the data), so callers
// discover it through Schema rather than through a static record type.
//
// Every transform returns a new Table. Column value slices are shared between
// tables derived from each other, which is safe because nothing in this
// package writes to a column after construction.
package table
