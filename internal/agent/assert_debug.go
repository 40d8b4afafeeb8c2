//go:build debug

package agent

import "fmt"

const debugBuild = true

func checkLookahead(r, perp float64) {
	panic(fmt.Sprintf("lookahead radius %.4f does not reach line at %.4f", r, perp))
}
