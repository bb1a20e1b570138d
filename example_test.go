package calc_test

import (
	"fmt"

	"github.com/zephyrtronium/calc"
)

func ExampleContext_Run() {
	ctx := calc.NewContext()
	for _, line := range []string{"x = 10", "x * 2", "x = 5", "x * 2", "x > 3 and x != 4"} {
		r, err := ctx.Run(line)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(r)
	}

	// Output:
	// 10
	// 20
	// 5
	// 10
	// 1
}

func ExampleParse() {
	e, err := calc.Parse("-2^2 + 3!! / max(a, 4) mod 7")
	if err != nil {
		panic(err)
	}
	fmt.Println(e)
	fmt.Println(e.Vars())

	// Output:
	// (((-2) ^ 2) + ((((3!)!) / max(a, 4)) % 7))
	// [a]
}

func ExampleEvalString_error() {
	_, err := calc.EvalString("1 + 2 / (3 - 3)")
	fmt.Println(err)
	if ie, ok := err.(calc.InputError); ok {
		fmt.Println("at", ie.Pos())
	}

	// Output:
	// 7: division by zero
	// at 7
}

func ExampleKeepHistory() {
	ctx := calc.NewContext(calc.KeepHistory())
	ctx.Run("6 * 7")
	ctx.Run("r = 2")
	r, _ := ctx.Run("result(1) / result(2)")
	fmt.Println(r)

	// Output:
	// 21
}
