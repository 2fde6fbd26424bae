package main

import "github.com/realmhunter/nbctl/cmd"

func main() {
	cmd.Execute()
}
