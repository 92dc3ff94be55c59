package main

import (
	"os"

	"devc/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
