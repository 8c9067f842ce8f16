// Package main provides the termxml binary entry point.
// termxml compiles terminology pointers into XPath queries and reads or
// edits the values they address in XML documents.
package main

import (
	"fmt"
	"os"
	"runtime"

	// Register built-in vocabularies via init()
	_ "github.com/c360studio/termxml/vocabulary/mods"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "termxml"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
