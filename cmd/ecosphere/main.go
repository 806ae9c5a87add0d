package main

import "github.com/ecosphere-platform/ecosphere/internal/cli"

func main() {
	cli.Execute()
}
