package main

import "github.com/mcoot/cardwar/internal/cli"

func main() {
	cli.Execute()
}
