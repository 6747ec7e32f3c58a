//go:build !windows

// Command runcap runs a child process under a routing policy, capturing
// and/or passing through its output, with an optional timeout.
package main

func main() {
	Execute()
}
