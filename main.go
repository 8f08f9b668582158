package main

import "github.com/pingwatch/pingwatch/cmd"

func main() {
	cmd.Execute()
}
