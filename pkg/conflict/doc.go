// Package conflict detects and explains inconsistencies between the error
// constraints and exclusion constraints of a combinatorial test model.
//
// An error constraint declares value combinations that the system under test
// must reject, so a test generator has to be able to produce each of them as
// an invalid test input. If the rest of the model (other error constraints,
// exclusion constraints) already forbids such a combination, the generator can
// never produce it: the combination is a missing invalid tuple.
//
// The Manager finds these by negating one error constraint at a time and
// pinning its parameters to each of its tuples in turn. When the resulting
// constraint network is unsatisfiable, a ConflictExplainer reduces it to a
// minimal conflict, a ConflictDiagnostician decomposes that conflict into
// minimal diagnoses, and a HittingSetBuilder combines the diagnoses of all
// findings into minimal repairs.
//
// Two id spaces are used. The model is first expanded so that every tuple
// becomes its own constraint; those ids are InternalID. Results are reported
// with the ids of the caller's model, ConstraintID. ResultConverter is the
// only translation point between the two.
//
// A Manager, and the ConstraintModel it owns, is not safe for concurrent use.
// DetectMissingInvalidTuplesParallel builds one ConstraintModel per worker.
package conflict
