package parser

import (
	"github.com/wsollers/wshell/iostreams"
	"github.com/wsollers/wshell/policy"
)

func testSource(s string) iostreams.Source {
	return iostreams.NewStringSource("<test>", s, policy.Default())
}
