package main

import "plates-console/cmd"

func main() {
	cmd.Run()
}
