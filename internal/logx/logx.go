// File: internal/logx/logx.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thin wrapper around the standard library logger. Centralizes the
// prefix/flags setup so call sites don't repeat it ad hoc.

package logx

import "log"

var std = log.New(log.Writer(), "[asynctcp] ", log.LstdFlags)

// Debugf logs a low-priority diagnostic.
func Debugf(format string, args ...any) { std.Printf("DEBUG "+format, args...) }

// Warnf logs a recoverable but noteworthy condition, e.g. a stray ACK
// with no write in progress or a worker registration failure.
func Warnf(format string, args ...any) { std.Printf("WARN "+format, args...) }

// Errorf logs a stack-reported or internal error being surfaced to the
// application.
func Errorf(format string, args ...any) { std.Printf("ERROR "+format, args...) }
