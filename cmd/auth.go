package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
)

// AuthLogin signs in and persists the session for later commands.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("signing in", "email", email)

	session, err := r.store.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	return r.writePlain("✓ Signed in as %s\n", session.Username)
}

// AuthRegister creates an account. Registration never signs the user in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	email := cmd.String("email")

	if err := r.store.Register(ctx, email, cmd.String("password"), cmd.String("name")); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	r.writePlain("✓ Account created for %s\n", email)
	return r.writePlain("Sign in with 'bookmind auth login' to get started.\n")
}

// AuthLogout clears the active and persisted session. Safe to run when
// already signed out.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	r.store.Teardown()
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus shows the restored session and when it will idle out.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	current := r.store.Current()
	if current == nil {
		return r.writePlain("Not signed in\n")
	}

	r.writePlain("✓ Signed in as %s (%s)\n", current.Username, current.Email)
	r.writePlain("Followers: %d • Following: %d\n", current.FollowersCount, current.FollowingCount)

	remaining := time.Until(r.store.Deadline()).Round(time.Minute)
	if remaining > 0 {
		r.writePlain("Session expires after %s of inactivity\n", remaining)
	}
	return nil
}
