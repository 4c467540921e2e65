// Package logging provides slog attribute helpers for consistent structured
// logging across the codebase, including email anonymization so audited
// users can be correlated in logs without exposing PII.
package logging
