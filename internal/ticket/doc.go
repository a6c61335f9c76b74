// Package ticket provides the types shared by the ticket monitor: the match
// details extracted from a listing page, the result of a single check, and the
// status history persisted across runs.
//
// A check result is built fresh on every run; the history is the only state that
// survives between scheduled invocations.
package ticket
