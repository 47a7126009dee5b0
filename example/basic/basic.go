// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/yeetrun/specflag/pkg/specflag"
)

const usage = `
Prints what it was given.
  -v, --verbose           say more
  -k                      keep going
  -o, --output (default 'stdout')
  -p (integer...)         a list of ports
  -I, --include... (string)  directories to search
  <in> (string)
  <out> (string...)
`

func main() {
	args := specflag.Parse(usage)
	fmt.Println("verbose:", args.MustBool("verbose"))
	fmt.Println("k:", args.MustBool("k"))
	fmt.Println("output:", args.MustString("output"))
	fmt.Println("ports:", args.MustInts("p"))
	fmt.Println("include:", args.MustStrings("include"))
	fmt.Println("in:", args.MustString("in"))
	fmt.Println("out:", args.MustStrings("out"))
}
