// This program talks to a ledger node from the command line.
package main

import "github.com/ardanlabs/ledger/app/tooling/client/cmd"

func main() {
	cmd.Execute()
}
