/*
Copyright © 2026 The pinwatch authors
*/
package main

import "github.com/pinwatch/pinwatch/cmd"

func main() {
	cmd.Execute()
}
