// Package task models a unit of work in a crew: an instruction, an
// expected-output contract, the owning agent and the upstream tasks whose
// outputs form its context.
//
// Dependencies are explicit references rather than implicit "previous task"
// sequencing, so a task's context is exactly the outputs of the tasks it names,
// in the order it names them. A task executes at most once.
package task
