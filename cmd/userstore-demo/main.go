// Command userstore-demo walks the users table through one full CRUD
// cycle and prints the results.
//
// Connection settings come from USERSTORE_* environment variables (or
// a .env file); set USERSTORE_MIGRATE=1 to create the users table
// before the sequence runs. The process exits non-zero on the first
// failing operation.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/arllen133/userstore"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := userstore.LoadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	session, err := userstore.Open(ctx, cfg, userstore.WithLogger(logger))
	if err != nil {
		return err
	}
	defer session.Close()

	if os.Getenv("USERSTORE_MIGRATE") == "1" {
		if err := userstore.Migrate(ctx, session); err != nil {
			return err
		}
	}

	repo := userstore.NewUserRepository(session)

	// CREATE
	created, err := repo.CreateUser(ctx, "Htet Lin Maung", 27)
	if err != nil {
		return err
	}
	fmt.Printf("created user id: %d\n", created.ID)

	// READ
	users, err := repo.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Printf("id: %d, name: %s, age: %d\n", u.ID, u.Name, u.Age)
	}

	// FETCH BY ID
	user, err := repo.GetUserByID(ctx, 1)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		fmt.Println("user not found by given id")
	case err != nil:
		return err
	default:
		fmt.Printf("fetched by id -> id: %d, name: %s, age: %d\n", user.ID, user.Name, user.Age)
	}

	// UPDATE
	affected, err := repo.UpdateUserAge(ctx, 1, 31)
	if err != nil {
		return err
	}
	fmt.Printf("updated %d row(s)\n", affected)

	// DELETE
	affected, err = repo.DeleteUserByID(ctx, 1)
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d row(s)\n", affected)

	return nil
}
