// Package batch partitions an ordered record sequence into fixed-size, contiguous
// batches and walks them one at a time.
//
// Batches never overlap, never reorder items and together cover the whole input:
// for L items and batch size B there are ceil(L/B) batches, each of size B except
// possibly the last. Processing is strictly sequential; each batch is handed to
// the callback only after the previous one returned. Progress tracks how far a
// run has come for logging.
package batch
