package main

import "github.com/llehouerou/musichub/internal/cli"

func main() {
	cli.Execute()
}
