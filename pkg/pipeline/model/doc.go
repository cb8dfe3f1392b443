// Package model provides the data structures shared by the pipeline package and its options.
// It defines the path bundle of a run, the image records produced by a run,
// the step descriptions and the hook interface implemented by pipeline options.
package model
