// Package crossway schedules a four-lane signalized intersection. Lanes are
// served one at a time, busiest first, each with a fixed green countdown,
// and an emergency vehicle can preempt the cycle for a fixed window after
// which the cycle resumes where it was interrupted.
//
// A Scheduler reads its input through a Panel, reports through Observers
// and is driven by a clock.Clock: clock.Manual for logical time and tests,
// clock.Loop for wall-clock operation.
package crossway
