package main

import "github.com/Johannes-Berggren/BranchGoblin/cmd"

func main() {
	cmd.Execute()
}
