package main

import (
	"fmt"
	"os"

	"github.com/veltaplan/schedule-assist/schedworker"
)

func main() {
	if err := schedworker.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
