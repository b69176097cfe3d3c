package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/focusup-app/focusup-backend/internal/app"
	"github.com/focusup-app/focusup-backend/internal/jobs/dispatcher"
)

// Standalone dispatcher process, for deployments that keep the mail sweeps
// off the API servers.
func main() {
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	d := dispatcher.New(application.Log, application.Repos.Notification, application.Services.Notification, application.Services.Mail)
	if err := d.Start(); err != nil {
		application.Log.Fatal("Failed to start dispatcher", "error", err)
	}
	defer d.Stop()

	application.Log.Info("Dispatcher running, waiting for signals...")
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	application.Log.Info("Shutting down dispatcher")
}
