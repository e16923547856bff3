// Package testutil holds shared test fixtures and golden-file helpers used
// across the compiler's phase tests.
package testutil

import "strings"

// NormalizeIR strips blank lines from emitted LLVM IR text so snapshot
// diffs stay readable across llir/llvm formatting changes that don't
// affect semantics.
func NormalizeIR(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
