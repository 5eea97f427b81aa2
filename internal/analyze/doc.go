// Package analyze provides runtime type identity and shape classification
// for enrichment targets.
//
// Key capabilities:
//   - TypeID: comparable identity for Go types and for logical (rule-file only) types
//   - Shape: classification of a runtime value as nil, scalar, struct, map, slice or array
//   - Fields: cached exported struct field metadata, looked up by Go name, json name
//     or normalised identifier
package analyze
