package main

import "campusjobs_backend/internal/app"

func main() {
	app.Run()
}
