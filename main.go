// Package main is the entry point for the statdiag CLI tool, which pulls
// Statcast pitch data and builds season diagnoses and game recaps.
package main

import "github.com/pable/go-statcast-diagnosis/cmd"

func main() {
	cmd.Execute()
}
