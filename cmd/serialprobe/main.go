package main

import "github.com/allbin/serialprobe/cmd"

func main() {
	cmd.Execute()
}
