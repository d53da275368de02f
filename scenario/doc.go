// Package scenario defines the typed, validated representation of an
// httpchain scenario document: the ordered chain of stages, requests,
// substitutions, and response-processing steps that make up a single test.
//
// A Scenario is built from the fully $ref-resolved document produced by
// package resolver via [Build], which decodes the discriminated unions
// (Body, Substitution, ResponseStep, Parameter, ParallelConfig) and then
// runs [Validate] to enforce the structural and cross-field invariants
// spec.md §4.2 requires.
package scenario
