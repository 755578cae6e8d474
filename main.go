package main

import "github/chapool/go-hdkey/cmd"

func main() {
	cmd.Execute()
}
