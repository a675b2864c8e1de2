// Package lang compiles single-line mathematical formulas into reusable
// programs and evaluates them on a small stack machine.
//
// A formula combines numbers, the arithmetic operators + - * / ^, unary
// minus, parentheses, named constants, scalar and vector functions, the
// conditional IF(cond, then, else), vector literals such as {1, 2, 3}, and
// quoted custom items such as 'price' whose values are supplied at
// evaluation time.
//
// # Pipeline
//
//	text → Tokenize → validate → generate → Program → Evaluate(+Bindings) → float64
//
// Compilation is fail-fast. The first violated rule aborts it with a
// *[Diagnostic], whose [Code] is one of a closed set of 32 kinds. A
// [Program] is immutable and may be evaluated concurrently, provided each
// evaluation is given its own [Bindings].
//
// # Grammar
//
// Informal EBNF:
//
//	Formula    → Expression EOF
//	Expression → Term { ('+' | '-') Term }
//	Term       → Power { ('*' | '/') Power }
//	Power      → Unary { '^' Unary }
//	Unary      → [ '-' ] Atom
//	Atom       → Number | Constant | Item | '(' Expression ')' | Call | If
//	Call       → Function '(' Argument { ',' Argument } ')'
//	Argument   → Expression | Vector | Item
//	Vector     → '{' Expression { ',' Expression } '}'
//	If         → IF '(' Expression ',' Expression ',' Expression ')'
//	Item       → "'" Name "'" | '"' Name '"'
//	Number     → Digits [ '.' Digits ] [ Exponent ] | '.' Digits [ Exponent ]
//	Exponent   → ('e' | 'E') [ '+' | '-' ] Digits
//
// A unary minus may only begin the formula or follow '(', ',' or '{'.
// Power is left associative. Vector literals and vector custom items are
// only accepted as vector arguments of vector functions; every function
// returns a scalar.
//
// # Example
//
//	reg, _ := lang.NewBuilder().
//		Scalar(lang.ScalarFunction{Name: "sqrt", Arity: 1, Calculate: sqrt}).
//		Build()
//
//	src := "sqrt('x') * 2"
//	prog, err := lang.Compile(ctx, src, reg)
//	if err != nil {
//		var d *lang.Diagnostic
//		if errors.As(err, &d) {
//			fmt.Println(d.Caret(src))
//		}
//	}
//
//	b := lang.NewBindings()
//	_ = b.BindScalar("x", 16)
//	v, _ := prog.Evaluate(ctx, b) // 8
package lang
