package main

import "procdiff/cmd"

func main() {
	cmd.Execute()
}
