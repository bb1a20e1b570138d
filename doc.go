// Package calc implements an arithmetic and boolean expression calculator.
//
// Expressions are written the usual way: "2 + 3 * 4" is 14, "2 ^ 3 ^ 2" is
// 512, and "5!" is 120. Relational and boolean operators produce 1 for true
// and 0 for false, and boolean operators treat any nonzero operand as true,
// so "3 > 2 and 1 == 1" is 1.
//
// A Context holds the constants, functions, and variables that names in an
// expression refer to. Running a statement like "x = 10" with Context.Run
// stores the result in the context so that later expressions can use x.
//
// Operators, from least to most binding:
//
//	or || nor        left
//	and && nand      left
//	== !=            left
//	< <= > >=        left
//	+ -              left
//	* / % mod        left
//	^ **             right
//	- + not          prefix
//	!                postfix
package calc
