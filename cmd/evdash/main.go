package main

import "ev-dashboard/internal/cli"

func main() {
	cli.Execute()
}
