// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"os"

	"github.com/cm-org/cm/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
