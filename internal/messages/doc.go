// SPDX-License-Identifier: MPL-2.0

// Package messages localizes the CLI's own labels (hint markers, tree headers,
// status lines). Catalogs are embedded TOML files served through go-i18n.
package messages
