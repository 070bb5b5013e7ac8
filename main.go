package main

import "docetui/internal/cli"

func main() {
	cli.Execute()
}
