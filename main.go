// The main package for the tgcrawl executable.
package main

import (
	"github.com/tgcrawl/tgcrawl/cmd"
)

func main() {
	cmd.Execute()
}
