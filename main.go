package main

import (
	"os"

	"github.com/biluochun/biluochun/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
