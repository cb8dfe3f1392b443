// Package steps holds the steps used to normalize a dataset, registered by name.
//
// A dataset definition lists step names in order; Build turns that list into a pipeline. Every step
// declares the steps it must follow and the resources it needs, so a list that cannot produce a valid
// tree is rejected before anything runs.
//
// The canonical tree of a dataset is:
//
//	<target>/<dir>/Images/<study id>_<image id>.png
//	<target>/<dir>/Masks/<study id>_<image id>.png
//	<target>/<dir>/Layers/<class>/<study id>_<image id>.png
//	<target>/<dir>/<dir>.jsonl
package steps
