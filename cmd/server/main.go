package main

import (
	"fmt"
	"os"

	"github.com/senna-lang/photo-map-S3-app/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "photomap: %v\n", err)
		os.Exit(1)
	}
}
