package main

import "github.com/kidevu123/expense-release/cmd/expense-release/cmd"

func main() {
	cmd.Execute()
}
