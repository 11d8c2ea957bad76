// Package main provides the entry point for fpcalc.
// fpcalc is a small demonstration front-end over the m2fixed library: it
// parses two operands and an operator, evaluates the operation in a
// fixed-point format given on the command line, and prints the exact
// decimal result.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/sarchlab/m2fixed/fixed"
)

var (
	intBits  = flag.Int64("i", 8, "integer bits of the working format")
	fracBits = flag.Int64("f", 8, "fractional bits of the working format")
	unsigned = flag.Bool("u", false, "construct operands as unsigned")
	tag      = flag.String("tag", "", "attach a debug tag to the result for trace correlation")
	verbose  = flag.Bool("v", false, "print the operands' resolved format before the result")
)

func main() {
	flag.Parse()

	if flag.NArg() != 3 {
		fmt.Fprintf(os.Stderr, "Usage: fpcalc [options] <a> <op> <b>\n")
		fmt.Fprintf(os.Stderr, "  op is one of: + - * /\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	a, err := parseOperand(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %q: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
	b, err := parseOperand(flag.Arg(2))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %q: %v\n", flag.Arg(2), err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("a: format (%d,%d) signed=%v value=%s\n", a.IntBits(), a.FracBits(), a.Signed(), a.String())
		fmt.Printf("b: format (%d,%d) signed=%v value=%s\n", b.IntBits(), b.FracBits(), b.Signed(), b.String())
	}

	result, err := evaluate(flag.Arg(1), a, b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating: %v\n", err)
		os.Exit(1)
	}
	if *tag != "" {
		result = result.WithDebugTag(*tag)
	}

	fmt.Println(result.String())
}

func parseOperand(s string) (*fixed.Real, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return fixed.New(
		fixed.WithIntBits(*intBits),
		fixed.WithFracBits(*fracBits),
		fixed.WithSigned(!*unsigned),
		fixed.WithValue(v),
	)
}

func evaluate(op string, a, b *fixed.Real) (*fixed.Real, error) {
	switch op {
	case "+":
		return fixed.Add(a, b)
	case "-":
		return fixed.Sub(a, b)
	case "*":
		return fixed.Mul(a, b)
	case "/":
		return fixed.Div(a, b)
	default:
		return nil, fmt.Errorf("fpcalc: unknown operator %q", op)
	}
}
