package main

import "github.com/boattime/portfolio/pkg/cli"

func main() {
	cli.Execute()
}
