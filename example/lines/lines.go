// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"

	"github.com/yeetrun/specflag/pkg/specflag"
	"tailscale.com/util/must"
)

const usage = `
Copies the first lines of a file.
  -n, --lines (1..1000) number of lines (required)
  -N, --number          prefix each line with its number
  <in> (default stdin)  file to read
  <out> (default stdout) file to write
`

func main() {
	args := specflag.Parse(usage)
	n := args.MustInt("lines")
	in := args.MustInFile("in")
	defer in.Close()
	out := args.MustOutFile("out")

	w := bufio.NewWriter(out)
	sc := bufio.NewScanner(in)
	for i := 1; i <= n && sc.Scan(); i++ {
		if args.MustBool("number") {
			fmt.Fprintf(w, "%4d  ", i)
		}
		fmt.Fprintln(w, sc.Text())
	}
	if err := sc.Err(); err != nil {
		args.Quitf("reading input: %v", err)
	}
	must.Do(w.Flush())
	must.Do(out.Close())
}
