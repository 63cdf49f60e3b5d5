// Package convergence reconciles live infrastructure with a desired resource
// graph.
//
// [Plan] diffs the desired graph against an observed snapshot and produces an
// ordered action list: creates and updates in topological order, destroys in
// reverse. [Engine.Apply] executes the actions against a [Provider], running
// independent actions concurrently on a bounded worker pool while strictly
// sequencing dependent ones. A failed action halts its dependent subtree but
// never rolls back independent progress; the caller always receives the full
// applied/failed/skipped accounting.
package convergence
