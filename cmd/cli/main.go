package main

import "github.com/xiebiao/library/internal/client/cli"

func main() {
	cli.Execute()
}
