package main

import "github.com/piaasbjornsen/graphrag-prosjektoppgave/cmd"

func main() {
	cmd.Execute()
}
