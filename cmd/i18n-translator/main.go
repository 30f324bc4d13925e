package main

import "i18n-translator/internal/cli"

func main() {
	cli.Execute()
}
