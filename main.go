package main

import "github.com/theirongolddev/compras/cmd"

func main() {
	cmd.Execute()
}
