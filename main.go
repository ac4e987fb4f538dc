package main

import "amora-backend/cmd"

func main() {
	cmd.Run()
}
