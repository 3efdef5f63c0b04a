// Command hreflint is the CLI entry point.
package main

import (
	"os"

	"github.com/hreflint/hreflint/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
