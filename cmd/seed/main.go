package main

import (
	"log"
	"os"

	"support-agent-be/internal/constant"
	"support-agent-be/internal/model"
	"support-agent-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding Support Staff...")
	admin := seedUser(db, "admin@support.local", "Support Admin", constant.RoleAdmin, "admin12345")
	agent := seedUser(db, "agent@support.local", "Support Agent", constant.RoleAgent, "agent12345")
	customer := seedUser(db, "customer@example.com", "Demo Customer", constant.RoleUser, "customer12345")

	color.Cyan("Seeding Knowledge Base Articles...")

	articles := []model.KBArticle{
		{
			Title:    "How to reset your password",
			Category: "account",
			AuthorId: admin.Id,
			Content: "To reset your password, open the login page and click 'Forgot password'. " +
				"We will send a reset link to your registered email address. The link expires after 30 minutes. " +
				"If you no longer have access to your email, contact support to verify your identity.",
		},
		{
			Title:    "Understanding your monthly invoice",
			Category: "billing",
			AuthorId: admin.Id,
			Content: "Invoices are generated on the first day of each billing cycle and sent to your billing email. " +
				"Charges include your base subscription plus any usage overages from the previous cycle. " +
				"You can download past invoices from the Billing section of your dashboard.",
		},
		{
			Title:    "Requesting a refund",
			Category: "billing",
			AuthorId: admin.Id,
			Content: "Refunds are available within 14 days of a charge for annual plans and 7 days for monthly plans. " +
				"To request a refund, open a support ticket with the invoice number. " +
				"Approved refunds are returned to the original payment method within 5-10 business days.",
		},
		{
			Title:    "Troubleshooting connection errors",
			Category: "technical",
			AuthorId: agent.Id,
			Content: "If the application fails to connect, first check the status page for ongoing incidents. " +
				"Clear your browser cache and verify that your firewall allows outbound traffic on port 443. " +
				"Persistent errors with a request id can be escalated to engineering through a support ticket.",
		},
		{
			Title:    "Data export and account deletion",
			Category: "account",
			AuthorId: agent.Id,
			Content: "You can export all of your data as a ZIP archive from Settings > Privacy. " +
				"Account deletion is permanent and removes all data after a 30 day grace period. " +
				"During the grace period you can cancel the deletion by logging back in.",
		},
	}

	for _, a := range articles {
		var existing model.KBArticle
		if err := db.Where("title = ?", a.Title).First(&existing).Error; err == nil {
			log.Printf("Article '%s' already exists, skipping...", a.Title)
			continue
		}
		if err := db.Create(&a).Error; err != nil {
			log.Printf("Error creating article '%s': %v", a.Title, err)
		} else {
			log.Printf("Created article: %s (%s)", a.Title, a.Category)
		}
	}

	color.Cyan("Seeding Sample Ticket...")

	var existingTicket model.Ticket
	if err := db.Where("customer_id = ? AND subject = ?", customer.Id, "Cannot log in after password change").
		First(&existingTicket).Error; err == nil {
		log.Println("Sample ticket already exists, skipping...")
	} else {
		ticket := model.Ticket{
			CustomerId: customer.Id,
			Subject:    "Cannot log in after password change",
			Status:     constant.TicketStatusOpen,
			Priority:   "normal",
		}
		if err := db.Create(&ticket).Error; err != nil {
			log.Printf("Error creating sample ticket: %v", err)
		} else {
			log.Printf("Created ticket: %s", ticket.Subject)
		}
	}

	color.Green("✅ Seeding completed! Run the embed worker (or re-save articles) to index the knowledge base.")
}

func seedUser(db *gorm.DB, email, name, role, password string) *model.User {
	var existing model.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("User '%s' already exists, skipping...", email)
		return &existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing password for '%s': %v", email, err)
	}
	hashStr := string(hash)

	user := model.User{
		Email:        email,
		Name:         name,
		PasswordHash: &hashStr,
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Error creating user '%s': %v", email, err)
	}
	log.Printf("Created user: %s (%s)", email, role)
	return &user
}
