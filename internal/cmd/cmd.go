package cmd

import (
	"fmt"
	"os"
)

const (
	AppName    = "herald"
	AppVersion = "(unknown)"
)

var info = func(s string, args ...interface{}) {
	fmt.Printf(s+"\n", args...)
}

var errFn = func(s string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, s+"\n", args...)
}
