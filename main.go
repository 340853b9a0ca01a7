package main

import "github.com/enumigo/enumigo/cmd"

func main() {
	cmd.Execute()
}
