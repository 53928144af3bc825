package main

import "github.com/devicelab-dev/humanflow/pkg/cli"

func main() {
	cli.Execute()
}
