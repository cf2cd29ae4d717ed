// Package rotation plans which players are on court in every period of a
// game.
//
// A Solver runs a bounded number of independent greedy attempts. Each
// attempt seeds starters into the first period and closers into the last,
// fills the remaining slots with the best ranked eligible player that keeps
// the inexperience limit, and hands the completed Grid to the Validator.
// The first grid that passes every check of the active Policy is returned
// as a Solution; when every attempt fails the solve ends with an
// UnsatisfiableError.
//
// Randomness only breaks ties between equally ranked players and always
// comes from the *rand.Rand given to NewSolver, so a fixed seed reproduces
// a solve exactly.
package rotation
