package main

import (
	"os"

	"github.com/izorzok/crawler/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
