package main

import "github.com/suncoast/sitegen/cmd"

func main() {
	cmd.Execute()
}
