// Package logging wires log/slog into AdFlow with console and JSON handlers.
//
// The console handler renders compact single-line output with a leading
// component prefix; the JSON handler produces machine-readable records for
// aggregation. Helper constructors (Attr aliases, WithComponent, NewNop) keep
// call sites terse and make loggers safe to use before full initialization.
package logging
