// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the keylens command line: one-shot resolution of
// message calls in source files, the key tree, per-key hover tables, single
// entry writes, and a live watch mode that keeps results current while files
// change on disk.
package cmd
