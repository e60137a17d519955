package main

import "github.com/nanaki-93/grit/cmd"

func main() {
	cmd.Execute()
}
