// Package verify checks proposed test rewrites against the original
// test by evaluating both on sampled operand values.
//
// The evaluator follows Python's numeric semantics: "/" always yields a
// float, "//" floors toward negative infinity and "%" takes the sign of
// the divisor. Samples where either side divides by zero are skipped.
//
// Out of scope (returns Unknown):
//   - identity and membership tests
//   - strings, None and other non-numeric operands
//   - calls, attributes and subscripts
//
// Sampling can refute a rewrite but never proves one.
package verify
