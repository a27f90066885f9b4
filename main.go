package main

import "github.com/machonerd15/jaqoi/cmd"

func main() {
	cmd.Execute()
}
