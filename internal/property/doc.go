// Package property reads and writes named fields on Go struct values through
// reflection. Field names are resolved with analyze.LookupField, so a rule can
// say "display_name" for a field declared as DisplayName.
//
// Values written through Set are converted to the field type by a Converter.
// Which conversions apply is selected with Category flags (numbers, textual
// numbers and booleans, times, durations, enums, arrays); user functions
// registered as Casters take precedence over all of them. Structural
// conversions (named types, element-wise slices and maps, pointer wrapping and
// unwrapping) are always available.
package property
