package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"formpulse/internal/app"
	"formpulse/internal/config"
	"formpulse/internal/log"
	"formpulse/internal/model"
	"formpulse/internal/service"
)

func main() {
	name := flag.String("name", "Demo Creator", "creator display name")
	email := flag.String("email", "demo@formpulse.local", "creator email")
	password := flag.String("password", "demo1234", "creator password")
	flag.Parse()

	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer a.Close(context.Background())

	creatorID, err := ensureCreator(ctx, a, *name, *email, *password)
	if err != nil {
		log.Fatalf("Failed to seed creator: %v", err)
	}

	form, err := a.FormService.Create(ctx, creatorID, demoForm())
	if err != nil {
		log.Fatalf("Failed to insert form: %v", err)
	}

	fmt.Printf("Successfully created form '%s' for %s\n", form.Title, *email)
	fmt.Printf("Public slug: %s\n", form.PublicSlug)
}

// ensureCreator registers the demo account, or logs in when it already exists
func ensureCreator(ctx context.Context, a *app.App, name, email, password string) (string, error) {
	resp, err := a.AuthService.Register(ctx, model.RegisterRequest{Name: name, Email: email, Password: password})
	if errors.Is(err, service.ErrEmailTaken) {
		resp, err = a.AuthService.Login(ctx, model.LoginRequest{Email: email, Password: password})
	}
	if err != nil {
		return "", err
	}
	return resp.User.ID, nil
}

func demoForm() service.FormInput {
	optional := false
	return service.FormInput{
		Title:       "Workshop Feedback",
		Description: "Tell us how today's session went.",
		Questions: []service.QuestionInput{
			{
				Text:    "How would you rate the workshop overall?",
				Type:    model.QuestionTypeMultipleChoice,
				Options: []string{"Excellent", "Good", "Fair", "Poor"},
			},
			{
				Text:    "Would you attend another session?",
				Type:    model.QuestionTypeMultipleChoice,
				Options: []string{"Yes", "No", "Maybe"},
			},
			{
				Text:     "What should we improve?",
				Type:     model.QuestionTypeText,
				Required: &optional,
			},
		},
	}
}
