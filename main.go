package main

import "github.com/medimind/mindline/cmd"

func main() {
	cmd.Execute()
}
