package main

import "evm-bridge/cmd/bridge-cli/cmd"

func main() {
	cmd.Execute()
}
