// Package match provides identifier normalisation, Levenshtein distance and
// "did you mean" suggestions for rule declarations that name fields or
// components that cannot be found.
//
// Key functions:
//   - NormalizeIdent: case and separator insensitive identifier form
//   - Levenshtein: edit distance between strings
//   - Suggest: ranks known names by similarity to an unknown one
package match
