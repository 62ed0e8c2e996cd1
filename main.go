package main

import "github.com/iksnae/aisync/cmd"

func main() {
	cmd.Execute()
}
