// The main package for the runtimectl executable.
package main

import (
	"github.com/JakeFAU/quantum-runtime-client/cmd"
)

func main() {
	cmd.Execute()
}
