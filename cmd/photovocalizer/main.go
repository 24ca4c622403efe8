package main

import "github.com/Brownie44l1/photovocalizer/internal/cli"

func main() {
	cli.Execute()
}
