package main

import (
	"github.com/tornwatch/tornwatch/cmd"
)

func main() {
	cmd.Execute()
}
