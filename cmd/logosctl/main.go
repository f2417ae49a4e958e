package main

import "github.com/jwebster45206/logos-engine/internal/cli"

func main() {
	cli.Execute()
}
