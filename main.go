package main

import "nalia-backend/cmd"

func main() {
	cmd.Run()
}
