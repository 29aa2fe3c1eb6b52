package main

//go:generate swag init -g cmd/screener/main.go -o docs

// @title           Options Screener API
// @version         0.1.0
// @description     Filter compilation, screening queries, saved presets, and access resolution.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
