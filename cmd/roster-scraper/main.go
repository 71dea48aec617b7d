package main

import "github.com/nuhockeyratings/roster-scraper/internal/cli"

func main() {
	cli.Execute()
}
