package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mind-engage/archquiz/internal/assets"
	"github.com/mind-engage/archquiz/internal/bank"
	storage "github.com/mind-engage/archquiz/internal/storage"
)

func main() {
	dir := flag.String("dir", "./content", "content directory holding manifest.json")
	assetDir := flag.String("assets", "", "asset directory to check image and document references against")
	asJSON := flag.Bool("json", false, "print issues as JSON")
	verbose := flag.Bool("verbose", false, "print a summary of the loaded bank")
	flag.Parse()

	b, issues, err := bank.LoadDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bankcheck: %v\n", err)
		os.Exit(2)
	}

	var imageExists, docExists func(string) bool
	if *assetDir != "" {
		if _, err := os.Stat(*assetDir); err != nil {
			fmt.Fprintf(os.Stderr, "bankcheck: %v\n", err)
			os.Exit(2)
		}
		bs, err := storage.NewFSStore(*assetDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bankcheck: %v\n", err)
			os.Exit(2)
		}
		res := &assets.Resolver{Store: bs, Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))}
		imageExists, docExists = res.ImageExists, res.DocumentExists
	}
	issues = append(issues, bank.Validate(b, imageExists, docExists)...)

	if *verbose {
		fmt.Printf("quizzes: %d\nlabs: %d\ndocuments: %d\nexam pool: %d questions\n",
			len(b.Quizzes), len(b.Labs), len(b.Documents), len(b.Pool()))
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if issues == nil {
			issues = []bank.Issue{}
		}
		_ = enc.Encode(issues)
	} else {
		for _, is := range issues {
			fmt.Println(is)
		}
	}
	if len(issues) > 0 {
		os.Exit(1)
	}
}
