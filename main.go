// Command dirpurge finds build artifact directories (node_modules, target,
// venv, ...) under a root and, on request, deletes them safely: to the
// trash, or permanently after an optional backup or zip archive.
package main

import (
	"os"

	"github.com/lakshaymaurya-felt/dirpurge/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	os.Exit(cmd.Execute())
}
