// Command strain works with strain patch sets from the command line:
// diffing documents, applying and inverting patches, and inspecting
// history files.
package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
