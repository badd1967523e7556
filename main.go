package main

import "github.com/restab/restab/cmd/restab"

func main() {
	restab.Main()
}
