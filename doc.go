// Package awk is a POSIX AWK interpreter with the widely used gawk
// extensions: BEGINFILE/ENDFILE, coprocesses (|&), @include and
// @namespace, indirect calls, FPAT, RT, IGNORECASE, gensub, patsplit,
// asort/asorti, SYMTAB/FUNCTAB, and gettext i18n.
//
// Quick start:
//
//	output, err := awk.Run(`{ sum += $1 } END { print sum }`,
//	    strings.NewReader("1\n2\n3\n"), nil)
//	// output: "6\n"
//
// Compile once, run many times:
//
//	prog, err := awk.Compile(`{ print NR, $0 }`)
//	out1, _ := prog.Run(file1, nil)
//	out2, _ := prog.Run(file2, nil)
//
// The cmd/awk command wraps this package in the standard CLI:
//
//	awk [-F fs] [-v var=value] ['prog' | -f progfile] [file ...]
package awk
