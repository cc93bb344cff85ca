package main

import "github.com/frahmantamala/iam-service/cmd"

func main() {
	cmd.Execute()
}
