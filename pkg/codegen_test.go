package armlet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func emitSource(t *testing.T, source string) string {
	node, err := Parse(source)
	assert.NoError(t, err, source)

	out, err := NewGenerator().Emit(node)
	assert.NoError(t, err, source)
	return out
}

func TestEmitLiterals(t *testing.T) {
	cases := []struct {
		src      string
		expected string
	}{
		{src: "42;", expected: "  ldr r0, =42\n"},
		{src: "true;", expected: "  mov r0, #1\n"},
		{src: "false;", expected: "  mov r0, #0\n"},
		{src: "null;", expected: "  mov r0, #0\n"},
		{src: "undefined;", expected: "  mov r0, #0\n"},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, emitSource(t, c.src), c.src)
	}
}

func TestEmitOperators(t *testing.T) {
	cases := []struct {
		src      string
		expected string
	}{
		{
			src: "1 + 2;",
			expected: `  ldr r0, =1
  push {r0, ip}
  ldr r0, =2
  pop {r1, ip}
  add r0, r0, r1
`,
		},
		{
			src: "1 - 2;",
			expected: `  ldr r0, =1
  push {r0, ip}
  ldr r0, =2
  pop {r1, ip}
  sub r0, r1, r0
`,
		},
		{
			src: "6 * 7;",
			expected: `  ldr r0, =6
  push {r0, ip}
  ldr r0, =7
  pop {r1, ip}
  mul r0, r0, r1
`,
		},
		{
			src: "10 / 2;",
			expected: `  ldr r0, =10
  push {r0, ip}
  ldr r0, =2
  pop {r1, ip}
  udiv r0, r1, r0
`,
		},
		{
			src: "1 == 2;",
			expected: `  ldr r0, =1
  push {r0, ip}
  ldr r0, =2
  pop {r1, ip}
  cmp r0, r1
  moveq r0, #1
  movne r0, #0
`,
		},
		{
			src: "1 != 2;",
			expected: `  ldr r0, =1
  push {r0, ip}
  ldr r0, =2
  pop {r1, ip}
  cmp r0, r1
  moveq r0, #0
  movne r0, #1
`,
		},
		{
			src: "!true;",
			expected: `  mov r0, #1
  cmp r0, #0
  moveq r0, #1
  movne r0, #0
`,
		},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, emitSource(t, c.src), c.src)
	}
}

func TestEmitFunction(t *testing.T) {
	// The first parameter sits at the bottom of the preserved register
	// block, fp - 16, and the result of the body stays in r0. The trailing
	// epilogue covers bodies that fall off the end without a return.
	expected := `.global add
add:
  push {fp, lr}
  mov fp, sp
  push {r0, r1, r2, r3}
  ldr r0, [fp, #-16]
  push {r0, ip}
  ldr r0, [fp, #-12]
  pop {r1, ip}
  add r0, r0, r1
  mov sp, fp
  pop {fp, pc}
  mov sp, fp
  mov r0, #0
  pop {fp, pc}
`

	assert.Equal(t, expected, emitSource(t, "function add(a, b) { return a + b; }"))
}

func TestEmitParameterOffsets(t *testing.T) {
	// Four parameters span fp - 16 up to fp - 4.
	out := emitSource(t, "function pick(a, b, c, d) { return d; }")
	assert.Contains(t, out, "ldr r0, [fp, #-4]")

	out = emitSource(t, "function pick(a, b, c, d) { return a; }")
	assert.Contains(t, out, "ldr r0, [fp, #-16]")
}

func TestEmitVarAndAssignment(t *testing.T) {
	// Locals go below the preserved registers: the first at fp - 24, the
	// second at fp - 32, each in its own 8-byte slot.
	expected := `.global f
f:
  push {fp, lr}
  mov fp, sp
  push {r0, r1, r2, r3}
  ldr r0, =1
  push {r0, ip}
  ldr r0, =2
  push {r0, ip}
  ldr r0, [fp, #-32]
  str r0, [fp, #-24]
  ldr r0, [fp, #-24]
  mov sp, fp
  pop {fp, pc}
  mov sp, fp
  mov r0, #0
  pop {fp, pc}
`

	assert.Equal(t, expected, emitSource(t, "function f() { var x = 1; var y = 2; x = y; return x; }"))
}

func TestEmitIf(t *testing.T) {
	expected := `  ldr r0, =1
  cmp r0, #0
  beq .L0
  ldr r0, =2
  b .L1
.L0:
  ldr r0, =3
.L1:
`

	assert.Equal(t, expected, emitSource(t, "if (1) { 2; } else { 3; }"))
}

func TestEmitWhile(t *testing.T) {
	expected := `.L0:
  ldr r0, =1
  cmp r0, #0
  beq .L1
  ldr r0, =2
  b .L0
.L1:
`

	assert.Equal(t, expected, emitSource(t, "while (1) { 2; }"))
}

func TestEmitNestedLabels(t *testing.T) {
	expected := `  ldr r0, =1
  cmp r0, #0
  beq .L0
  ldr r0, =2
  cmp r0, #0
  beq .L2
  ldr r0, =3
  b .L3
.L2:
  ldr r0, =4
.L3:
  b .L1
.L0:
  ldr r0, =5
.L1:
`

	assert.Equal(t, expected, emitSource(t, "if (1) { if (2) { 3; } else { 4; } } else { 5; }"))
}

func TestEmitCall(t *testing.T) {
	cases := []struct {
		src      string
		expected string
	}{
		{
			src:      "g();",
			expected: "  bl g\n",
		},
		{
			src: "g(1);",
			expected: `  ldr r0, =1
  bl g
`,
		},
		{
			src: "g(1, 2, 3);",
			expected: `  sub sp, sp, #16
  ldr r0, =1
  str r0, [sp, #0]
  ldr r0, =2
  str r0, [sp, #4]
  ldr r0, =3
  str r0, [sp, #8]
  pop {r0, r1, r2, r3}
  bl g
`,
		},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, emitSource(t, c.src), c.src)
	}
}

func TestEmitCallArity(t *testing.T) {
	node, err := Parse("g(1, 2, 3, 4, 5);")
	assert.NoError(t, err)

	_, err = NewGenerator().Emit(node)
	assert.Equal(t, &BadArityError{Name: "g", Count: 5}, err)
}

func TestEmitFunctionArity(t *testing.T) {
	node, err := Parse("function f(a, b, c, d, e) {}")
	assert.NoError(t, err)

	_, err = NewGenerator().Emit(node)
	assert.Equal(t, &BadArityError{Name: "f", Count: 5}, err)
}

func TestEmitArrayLiteral(t *testing.T) {
	expected := `  ldr r0, =12
  bl malloc
  push {r4, ip}
  mov r4, r0
  ldr r0, =2
  str r0, [r4]
  ldr r0, =10
  str r0, [r4, #4]
  ldr r0, =20
  str r0, [r4, #8]
  mov r0, r4
  pop {r4, ip}
`

	assert.Equal(t, expected, emitSource(t, "[10, 20];"))
}

func TestEmitArrayLookup(t *testing.T) {
	expected := `.global f
f:
  push {fp, lr}
  mov fp, sp
  push {r0, r1, r2, r3}
  ldr r0, [fp, #-16]
  push {r0, ip}
  ldr r0, =1
  pop {r1, ip}
  ldr r2, [r1]
  cmp r0, r2
  movhs r0, #0
  addlo r1, r1, #4
  lsllo r0, r0, #2
  ldrlo r0, [r1, r0]
  mov sp, fp
  pop {fp, pc}
  mov sp, fp
  mov r0, #0
  pop {fp, pc}
`

	assert.Equal(t, expected, emitSource(t, "function f(xs) { return xs[1]; }"))
}

func TestEmitArrayLength(t *testing.T) {
	out := emitSource(t, "function f(xs) { return length(xs); }")
	assert.Contains(t, out, "ldr r0, [r0, #0]")
}

func TestEmitUndefinedVariable(t *testing.T) {
	node, err := Parse("x;")
	assert.NoError(t, err)

	_, err = NewGenerator().Emit(node)
	assert.Equal(t, &UndefinedError{Name: "x"}, err)

	node, err = Parse("x = 1;")
	assert.NoError(t, err)

	_, err = NewGenerator().Emit(node)
	assert.Equal(t, &UndefinedError{Name: "x"}, err)
}

func TestEmitStackBalance(t *testing.T) {
	out := emitSource(t, `
		function main() {
			var xs = [1, 2, 3];
			var total = 0;
			var i = 0;
			while (i != length(xs)) {
				total = total + xs[i];
				i = i + 1;
			}
			clamp(total, 0, 9);
		}
	`)

	// Each var statement parks one pair permanently until the epilogue;
	// every other push of {r0, ip} is matched by a pop into r1.
	pushes := strings.Count(out, "push {r0, ip}")
	pops := strings.Count(out, "pop {r1, ip}")
	assert.Equal(t, pops+3, pushes)

	assert.Equal(t,
		strings.Count(out, "push {r4, ip}"),
		strings.Count(out, "pop {r4, ip}"),
	)
	assert.Equal(t,
		strings.Count(out, "sub sp, sp, #16"),
		strings.Count(out, "pop {r0, r1, r2, r3}"),
	)
}
