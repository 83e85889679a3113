// Package slog provides logging decorators for notescan services.
package slog
