package main

import "github.com/HaiFongPan/fpick/cmd"

func main() {
	cmd.Execute()
}
