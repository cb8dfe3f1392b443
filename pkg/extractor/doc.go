// Package extractor defines how identity, phase and labels are read from source files.
//
// Every dataset embeds this information differently: in directory names, in file name segments or in
// external label tables. The pipeline only depends on the four capabilities defined here, each
// dataset plugs in the implementations matching its layout.
//
// Missing labels are not an error: a label extractor returns empty lists for an unlabelled image.
// An unknown phase name is always an error, a wrong contrast phase must never be silently assigned.
package extractor
