package main

import "github.com/codingbrain01/MyBlog/backend/cmd/blogctl/commands"

func main() {
	commands.Execute()
}
