package main

import "github.com/homelab/stackcheck/cmd"

func main() {
	cmd.Execute()
}
