// The main package for the ingestor executable.
package main

import (
	"github.com/openvagas/ingestor/cmd"
)

func main() {
	cmd.Execute()
}
