// SPDX-License-Identifier: MPL-2.0

// Command keylens resolves localization message calls against project
// locale files.
package main

import cmd "github.com/keylens/keylens/cmd/keylens"

func main() {
	cmd.Execute()
}
