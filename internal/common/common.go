package common

// UnknownStr is the String() fallback for enums outside their declared range.
const UnknownStr = "unknown"
