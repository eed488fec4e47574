package main

import (
	"fmt"
	"strconv"
)

// parseCountArg reads an optional positional count, defaulting when absent.
func parseCountArg(args []string, fallback int) (int, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		return 0, fmt.Errorf("count must be a positive integer, got %q", args[0])
	}
	return count, nil
}
