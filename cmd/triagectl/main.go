package main

import "triagectl/internal/cmd"

func main() {
	cmd.Execute()
}
