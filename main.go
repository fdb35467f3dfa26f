package main

import "github.com/shri1525/Cloudapplication-instagram-clone/cmd"

func main() {
	cmd.Run()
}
