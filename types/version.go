package types

// Version is the canonical process-wrapper version.
// The CLI, the report format, and the diagnostic record handling all
// share this version.
const Version = "0.3.0"
