package armlet

import (
	"regexp"
	"strings"
)

// Source is an immutable cursor over remaining input. Matching never mutates
// the cursor; it returns a fresh one holding the residual text.
type Source struct {
	remaining string
}

func NewSource(text string) Source {
	return Source{remaining: text}
}

func (s Source) match(re *regexp.Regexp) (string, Source, bool) {
	loc := re.FindStringIndex(s.remaining)
	if loc == nil {
		return "", s, false
	}

	lexeme := s.remaining[:loc[1]]
	return lexeme, Source{remaining: s.remaining[loc[1]:]}, true
}

// Parser consumes input from a cursor and produces a value plus the residual
// cursor. On failure the original cursor is returned and nothing is consumed.
type Parser[T any] func(src Source) (T, Source, bool)

// Pattern matches an anchored regular expression at the cursor. The pattern
// must start with ^, otherwise a match further into the input would silently
// skip text.
func Pattern(pattern string) Parser[string] {
	if !strings.HasPrefix(pattern, "^") {
		panic("armlet: pattern must be anchored: " + pattern)
	}
	re := regexp.MustCompile(pattern)

	return func(src Source) (string, Source, bool) {
		return src.match(re)
	}
}

// Constant succeeds with a fixed value without consuming input.
func Constant[T any](value T) Parser[T] {
	return func(src Source) (T, Source, bool) {
		return value, src, true
	}
}

// Either is the tagged result of Or: exactly one side holds a value.
type Either[L, R any] struct {
	left   L
	right  R
	isLeft bool
}

func Left[L, R any](value L) Either[L, R] {
	return Either[L, R]{left: value, isLeft: true}
}

func Right[L, R any](value R) Either[L, R] {
	return Either[L, R]{right: value}
}

func (e Either[L, R]) IsLeft() bool { return e.isLeft }

// Left returns the left value, zero if the right branch matched.
func (e Either[L, R]) Left() L { return e.left }

// Right returns the right value, zero if the left branch matched.
func (e Either[L, R]) Right() R { return e.right }

// Or is ordered choice: it tries first, and only if that fails tries second
// against the original cursor. The first success wins even if the other
// alternative would match more input.
func Or[L, R any](first Parser[L], second Parser[R]) Parser[Either[L, R]] {
	return func(src Source) (Either[L, R], Source, bool) {
		if value, rest, ok := first(src); ok {
			return Left[L, R](value), rest, true
		}
		if value, rest, ok := second(src); ok {
			return Right[L](value), rest, true
		}

		var zero Either[L, R]
		return zero, src, false
	}
}

// Choice is ordered choice over alternatives of one result type, where the
// Or tag carries no information.
func Choice[T any](alternatives ...Parser[T]) Parser[T] {
	return func(src Source) (T, Source, bool) {
		for _, p := range alternatives {
			if value, rest, ok := p(src); ok {
				return value, rest, true
			}
		}

		var zero T
		return zero, src, false
	}
}

// Bind runs p, feeds its value to f, and runs the returned parser against the
// residual cursor. Once p has consumed input there is no backtracking; a later
// failure propagates to the nearest enclosing choice.
func Bind[A, B any](p Parser[A], f func(A) Parser[B]) Parser[B] {
	return func(src Source) (B, Source, bool) {
		value, rest, ok := p(src)
		if !ok {
			var zero B
			return zero, src, false
		}

		return f(value)(rest)
	}
}

// And sequences two parsers, keeping only the second value.
func And[A, B any](first Parser[A], second Parser[B]) Parser[B] {
	return Bind(first, func(A) Parser[B] {
		return second
	})
}

// Map transforms a parser's value.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return Bind(p, func(value A) Parser[B] {
		return Constant(f(value))
	})
}

// ZeroOrMore applies p until it fails, collecting the results in order. It
// never fails itself; no match yields a nil slice.
func ZeroOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(src Source) ([]T, Source, bool) {
		var values []T
		for {
			value, rest, ok := p(src)
			if !ok {
				return values, src, true
			}

			values = append(values, value)
			src = rest
		}
	}
}

// Maybe turns a parser optional: nil when p did not match, never a failure.
func Maybe[T any](p Parser[T]) Parser[*T] {
	return func(src Source) (*T, Source, bool) {
		if value, rest, ok := p(src); ok {
			return &value, rest, true
		}

		return nil, src, true
	}
}

// ParseToCompletion runs the parser over the whole input. Leftover text is as
// fatal as no match at all.
func (p Parser[T]) ParseToCompletion(input string) (T, error) {
	var zero T

	value, rest, ok := p(NewSource(input))
	if !ok {
		return zero, &SyntaxError{Remaining: input}
	}
	if rest.remaining != "" {
		return zero, &SyntaxError{Remaining: rest.remaining}
	}

	return value, nil
}
