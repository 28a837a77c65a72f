package main

import "tunematch/cmd"

func main() {
	cmd.Execute()
}
