package main

import "github.com/bnema/addonctl/cmd"

func main() {
	cmd.Execute()
}
