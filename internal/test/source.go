package test

import (
	"fmt"
	"strings"
)

// GetProgram builds a well-typed program with size functions plus a main
// that calls each of them. Deterministic on purpose: benchmark runs stay
// comparable, and the callees are defined before main so every call
// resolves.
func GetProgram(size int) string {
	var b strings.Builder

	for i := 0; i < size; i++ {
		fmt.Fprintf(&b, "function f%d(a: number, b: number): number {\n", i)
		b.WriteString("  var total = a + b * 2;\n")
		b.WriteString("  var parts = [a, b, total];\n")
		b.WriteString("  if (total == 0) { total = 1; } else { total = total - 1; }\n")
		b.WriteString("  while (total != 0) {\n")
		b.WriteString("    total = total - 1;\n")
		b.WriteString("  }\n")
		b.WriteString("  return parts[0] + length(parts);\n")
		b.WriteString("}\n")
	}

	b.WriteString("function main() {\n")
	for i := 0; i < size; i++ {
		fmt.Fprintf(&b, "  putchar(f%d(%d, 2));\n", i, i%10)
	}
	b.WriteString("}\n")

	return b.String()
}
