package main

import "github.com/naka-gawa/repo-portfolio-audit/cmd"

func main() {
	cmd.Execute()
}
