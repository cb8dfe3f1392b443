// Package pipeline runs the ordered steps normalizing one medical imaging dataset.
//
// A pipeline is an ordered list of named steps assembled once per dataset definition. Executing it
// builds a RunContext holding the paths, the dataset configuration and the extractor and selector
// capabilities of the dataset, then runs every step against that context in declared order.
//
// A step may process its files concurrently with RunContext.ForEachFile and RunContext.ForEachRecord,
// but it always returns after every file is processed: the next step observes the full output of all
// previous steps.
//
// The pipeline stops on the first step error and reports the name of the failing step. Output already
// written is left in place, steps are idempotent and a run is recovered by fixing the cause and running
// the whole pipeline again.
//
// Steps declare ordering constraints (a step that must run after another, steps that cannot be combined)
// and the resources they need. Constraints are checked before any step runs.
package pipeline
