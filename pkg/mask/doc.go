// Package mask normalizes segmentation masks to a dataset colour table.
//
// Every dataset declares an ordered table of semantic classes. Each class has one or more source colours,
// as found in the raw masks, and one canonical target colour. The package converts raw masks to the
// canonical colours, splits canonical masks into one indicator layer per class, synthesizes blank masks
// and rasterizes sparse polygon annotations.
//
// All algorithms are pure per-pixel lookups: no interpolation is applied so class boundaries are preserved.
package mask
