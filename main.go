package main

import "github.com/kris-hansen/chainforge/cmd"

func main() {
	cmd.Execute()
}
