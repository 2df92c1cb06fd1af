package main

import "github.com/kozaktomas/photo-organizer/cmd"

func main() {
	cmd.Execute()
}
