package main

import "github.com/kdwils/dvmnbot/cmd"

func main() {
	cmd.Execute()
}
