package main

import "github.com/KaramelBytes/insightloom/cmd"

func main() {
	cmd.Execute()
}
