// Package frameslot implements the single-frame handoff between the render
// loop and the encode worker.
//
// A Slot holds at most one frame. Publish waits while the slot is full, so a
// slow encoder throttles the producer instead of losing frames, and Consume
// waits while it is empty. Close wakes both sides: producers get ErrClosed and
// the consumer drains whatever is left before observing the close.
package frameslot
