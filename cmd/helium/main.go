package main

import "github.com/Supamang2122/helium-interpreter/cmd/helium/cmd"

func main() {
	cmd.Execute()
}
