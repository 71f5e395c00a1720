// Command mhdb maintains persistent uid indexes for MH mail folders.
package main

import "github.com/FAU-CDI/mhdb/internal/cli"

func main() {
	cli.Execute()
}
