package main

import "github.com/evalboard/evalboard/internal/cli"

func main() {
	cli.Execute()
}
