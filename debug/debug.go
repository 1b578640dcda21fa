// Package debug gates strain's stderr debug logging behind environment
// variables, so library consumers pay nothing unless they opt in.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Apply bool
	Diff  bool
	Pop   bool
	RPC   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Apply = boolEnv("STRAIN_DEBUG_APPLY")
	d.Diff = boolEnv("STRAIN_DEBUG_DIFF")
	d.Pop = boolEnv("STRAIN_DEBUG_POP")
	d.RPC = boolEnv("STRAIN_DEBUG_RPC")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Apply() bool {
	return d.Apply
}
func Diff() bool {
	return d.Diff
}
func Pop() bool {
	return d.Pop
}
func RPC() bool {
	return d.RPC
}
