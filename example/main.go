package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivikasavnish/go-scriptgen/pkg/actions"
	"github.com/ivikasavnish/go-scriptgen/pkg/codegen"
	"github.com/ivikasavnish/go-scriptgen/pkg/service"
)

func main() {
	// Create and start the script generation server
	server := service.NewServer(nil, service.WithLogger(logrus.StandardLogger())) // Using default in-memory store
	go func() {
		if err := server.Start(":6666"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Give the listener a moment
	time.Sleep(100 * time.Millisecond)

	// Record a small TodoMVC walk
	recorder := actions.NewRecorder(
		actions.WithLogger(log.New(os.Stdout, "[RECORDER] ", log.LstdFlags)),
	)
	page := recorder.OpenPage("https://demo.playwright.dev/todomvc")
	recorder.Record(actions.ActionInContext{
		PageAlias: page,
		Action:    actions.Fill{Selector: ".new-todo", Text: "write the report"},
	})
	recorder.Record(actions.ActionInContext{
		PageAlias: page,
		Action:    actions.Press{Selector: ".new-todo", Key: "Enter"},
	})
	recorder.Record(actions.ActionInContext{
		PageAlias: page,
		Action:    actions.Check{Selector: ".todo-list li:nth-child(1) .toggle"},
	})
	session := recorder.Session("TodoMVC")

	// Persist the recording so it can be replayed or regenerated later
	if err := session.SaveToFile("todomvc.json"); err != nil {
		log.Fatalf("Failed to save session: %v", err)
	}

	// Upload the session and ask for a C# script emulating a phone
	client := service.NewClient("http://localhost:6666")
	if err := client.CreateSession("todomvc", session); err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	script, err := client.GenerateScript("todomvc", &service.GenerateRequest{
		Options: codegen.GeneratorOptions{
			DeviceName:  "Pixel 4",
			SaveStorage: "auth.json",
		},
	})
	if err != nil {
		log.Fatalf("Failed to generate script: %v", err)
	}

	fmt.Println(script)

	// Keep the server running
	select {}
}
