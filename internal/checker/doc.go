// Package checker defines the macsecscan check-orchestration framework.
//
// Architecture overview:
//
//   - Checks implement the Check interface (Name + Run) for one subsystem
//     each: package managers, OS updates, disk encryption, admin accounts,
//     listeners, browser extensions, persistence locations, malware scanning.
//   - Result is the universal (informational, threats) pair. Classification is
//     decided by the check; the framework only concatenates.
//   - Runner invokes checks and merges results in declared order, wrapping each
//     in Safe so one failing check never aborts the run.
//   - Registry holds the two canonical sets: default (always run) and opt-in
//     (run with --full or individually).
//   - Env carries the executor, filesystem, logger and home directory so
//     concrete checks stay testable with fakes.
package checker
