// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

// Package query provides small helpers for parsing URL query values.
package query

import (
	"strconv"
	"strings"
)

// Int parses an integer query value, returning the fallback when the value
// is empty or malformed.
func Int(val string, fallback int) int {
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// LowerStringSlice parses a comma-separated query string into a trimmed,
// lowercased slice. Used for tag filters where tags are stored lowercase.
func LowerStringSlice(val string) []string {
	res := StringSlice(val)
	for i, v := range res {
		res[i] = strings.ToLower(v)
	}
	return res
}
