package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/bookmind/internal/shared"
	tu "github.com/desertthunder/bookmind/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			api := &tu.MockService{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				API:    api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("bootstrap", func(t *testing.T) {
		newRunner := func() *Runner {
			config := shared.DefaultConfig()
			config.Database.Path = ":memory:"
			config.Database.MaxOpenConns = 1
			return NewRunner(RunnerOpts{
				Config: config,
				API:    &tu.MockService{},
				Output: &bytes.Buffer{},
			})
		}

		t.Run("opens the database and session store", func(t *testing.T) {
			runner := newRunner()

			if err := runner.bootstrap(); err != nil {
				t.Fatalf("bootstrap failed: %v", err)
			}
			if runner.store == nil || runner.db == nil || runner.wishing == nil {
				t.Error("expected store, database and wishlist cache wired")
			}
		})

		t.Run("is idempotent", func(t *testing.T) {
			runner := newRunner()

			if err := runner.bootstrap(); err != nil {
				t.Fatalf("bootstrap failed: %v", err)
			}
			store := runner.store
			if err := runner.bootstrap(); err != nil {
				t.Fatalf("second bootstrap failed: %v", err)
			}
			if runner.store != store {
				t.Error("expected the store reused")
			}
		})

		t.Run("requireSession fails when anonymous", func(t *testing.T) {
			runner := newRunner()

			_, err := runner.requireSession()
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]string{"title": "Dune"}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if got := output.String(); got != "{\"title\":\"Dune\"}\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlain("found %d books\n", 3)

		if !strings.Contains(output.String(), "found 3 books") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}
