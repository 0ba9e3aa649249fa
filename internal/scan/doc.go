// SPDX-License-Identifier: MPL-2.0

// Package scan locates message-function calls in raw source text.
//
// Two call shapes are recognized for a namespace such as "m":
//
//	m.greeting(args)          flat key
//	m["login.inputs.email"]() nested key (single, double, or back-tick quotes)
//
// Scanning is purely textual. Calls inside comments and string literals are
// reported like any other, and argument lists must not contain parentheses.
package scan
