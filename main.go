package main

import "github.com/kshitijv/rewatch/cmd"

func main() {
	cmd.Execute()
}
