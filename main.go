// Command packager builds and packages ExpenseHelper release artifacts.
package main

import "github.com/frankfika/ExpenseReimbursement/cmd"

func main() {
	cmd.Execute()
}
