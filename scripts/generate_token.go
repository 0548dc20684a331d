package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/kingrain94/tagorder-api/internal/middleware"
)

// Signs a development token shaped like the auth service's, using the same
// secret the API verifies with.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	userID := flag.String("user", "", "Auth user id (sub claim); random when empty")
	email := flag.String("email", "", "Email claim")
	expirationHours := flag.Int("exp", 24, "Token expiration in hours")
	flag.Parse()

	if *email == "" {
		log.Fatal("Email is required")
	}
	if *userID == "" {
		*userID = uuid.NewString()
	}

	secret := os.Getenv("SUPABASE_JWT_SECRET")
	if secret == "" {
		log.Fatal("SUPABASE_JWT_SECRET is not set")
	}

	tokenString, err := middleware.GenerateToken(secret, *userID, *email, time.Duration(*expirationHours)*time.Hour)
	if err != nil {
		log.Fatalf("Error signing token: %v", err)
	}

	fmt.Printf("User ID: %s\nGenerated JWT Token:\n%s\n", *userID, tokenString)
}
