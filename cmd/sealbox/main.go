package main

import "sealbox/cmd/sealbox/cmd"

func main() {
	cmd.Execute()
}
