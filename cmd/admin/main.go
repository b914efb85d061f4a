package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"railcrm/backend/internal/models"
	"railcrm/backend/internal/storage"
	"railcrm/backend/internal/taxonomy"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: set-role, feedback, list")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "set-role":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin set-role <user_id> <role> [department]")
			os.Exit(1)
		}
		userID, role := os.Args[2], os.Args[3]
		department := ""
		if len(os.Args) > 4 {
			department = os.Args[4]
		}

		user, err := storageSvc.GetUserByID(userID)
		if err != nil {
			log.Fatalf("failed to load user %s: %v", userID, err)
		}
		user.Role = string(taxonomy.NormalizeRole(role))
		if department != "" {
			user.Department = string(taxonomy.NormalizeDepartment(department))
		}
		if err := storageSvc.SaveUser(user); err != nil {
			log.Fatalf("failed to save user: %v", err)
		}
		fmt.Printf("User %s is now %s", user.ID, user.Role)
		if user.Department != "" {
			fmt.Printf(" (%s)", user.Department)
		}
		fmt.Println()

	case "feedback":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin feedback <complaint_id> <text>")
			os.Exit(1)
		}
		complaintID, text := os.Args[2], os.Args[3]
		if err := storageSvc.SetComplaintFeedback(complaintID, text); err != nil {
			log.Fatalf("failed to set feedback: %v", err)
		}
		fmt.Printf("Feedback attached to complaint %s\n", complaintID)

	case "list":
		var (
			complaints []models.Complaint
			err        error
		)
		if len(os.Args) > 2 {
			department := taxonomy.NormalizeDepartment(os.Args[2])
			complaints, err = storageSvc.GetComplaintsByDepartment(department)
		} else {
			complaints, err = storageSvc.GetAllComplaints()
		}
		if err != nil {
			log.Fatalf("failed to list complaints: %v", err)
		}
		for _, c := range complaints {
			when := time.UnixMilli(c.Timestamp).Format("02 Jan 2006, 15:04")
			feedback := "-"
			if c.Feedback != nil {
				feedback = *c.Feedback
			}
			fmt.Printf("%s | %-14s | %s | %s | feedback: %s\n",
				c.ComplaintID, c.Department, when, c.ComplaintText, feedback)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}
