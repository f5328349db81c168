// Package runner classifies chunks of records on a fixed pool of workers.
//
// Records are independent, so the pool needs no coordination beyond
// handing out indexes; results land in their input positions, which keeps
// chunked output identical to a single sequential pass. Cancellation is
// coarse: an abandoned chunk produces no results at all.
package runner
