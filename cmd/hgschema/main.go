// Command hgschema validates HiGlass viewconfs and exports their JSON Schema.
package main

import (
	"os"

	"github.com/higlass/hgschema/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
