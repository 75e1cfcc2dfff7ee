package common

// UnknownStr is the name printed for enum values outside their defined range.
const UnknownStr = "unknown"
