package main

import "github.com/skillz-hq/skillz/cmd"

func main() {
	cmd.Execute()
}
