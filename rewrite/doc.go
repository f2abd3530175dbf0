// Package rewrite generates the memoized twin of a Go source file.
//
// A source file is tagged with a build constraint, typically
//
//	//go:build memogen
//
// and File produces the file that is compiled in its place, under the
// negated constraint. Functions marked //memogen:memoize are expanded with
// package transform; everything else is copied as written.
package rewrite
