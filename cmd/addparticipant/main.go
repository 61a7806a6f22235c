// cmd/addparticipant/main.go
// Creates or updates a participant in the database.
//
// Usage:
//
//	go run ./cmd/addparticipant -username paul -password testing -name "Paul C" -competition 1
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/pbclarke/tippingapi/config"
	bundb "github.com/pbclarke/tippingapi/db"
	"github.com/pbclarke/tippingapi/models"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	name := flag.String("name", "", "display name (defaults to username)")
	competition := flag.Int("competition", 0, "competition id (required)")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -username and -password are required")
	}
	if *competition == 0 {
		log.Fatal("-competition is required")
	}
	if *name == "" {
		*name = *username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("bcrypt:", err)
	}

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	participant := &models.Participant{
		Username:      *username,
		Password:      string(hash),
		DisplayName:   *name,
		CompetitionID: *competition,
	}

	_, err = db.NewInsert().Model(participant).
		On("CONFLICT (username) DO UPDATE SET password = EXCLUDED.password, display_name = EXCLUDED.display_name, competition_id = EXCLUDED.competition_id").
		Exec(context.Background())
	if err != nil {
		log.Fatal("insert participant:", err)
	}

	fmt.Printf("participant %q saved\n", *username)
}
