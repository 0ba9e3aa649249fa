// SPDX-License-Identifier: MPL-2.0

// Package session turns host events (edits, saves, focus changes, locale file
// changes, configuration updates) into refresh requests. A Session owns one
// resolution pipeline and one refresh coordinator for a project; results go
// to the Sink supplied by the host.
package session
