// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes local storage and the config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file, database and migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your BookMind account and session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account (sign in afterwards)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name", Required: true},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session",
				Action: r.AuthStatus,
			},
		},
	}
}

// booksCommand handles catalog operations
func booksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "books",
		Usage: "Search and inspect the catalog",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search books by title or author",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.BooksSearch,
			},
			{
				Name:  "details",
				Usage: "Show one book with its reviews and similar titles",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.BooksDetails,
			},
		},
	}
}

// rateCommand handles rating operations
func rateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "rate",
		Usage: "Rate books and manage your ratings",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Rate a book from 1 to 5 stars, with an optional review",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "book-id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "stars", Aliases: []string{"s"}, Usage: "Score from 1 to 5", Required: true},
					&cli.StringFlag{Name: "review", Usage: "Review text"},
				},
				Action: r.RateSet,
			},
			{
				Name:  "delete",
				Usage: "Remove your rating for a book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "book-id"},
				},
				Action: r.RateDelete,
			},
			{
				Name:  "list",
				Usage: "List your ratings",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.RateList,
			},
		},
	}
}

// recsCommand fetches the recommendation list.
func recsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recs",
		Usage: "Show your recommendations",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Recs,
	}
}

// feedCommand fetches the community feed.
func feedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "Show recent ratings from the community",
		Commands: []*cli.Command{
			{
				Name:  "like",
				Usage: "Toggle your like on a review",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "rating-id"},
				},
				Action: r.FeedLike,
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Feed,
	}
}

// wishlistCommand handles reading-list operations
func wishlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "wishlist",
		Aliases: []string{"wl"},
		Usage:   "Manage your reading list",
		Commands: []*cli.Command{
			{
				Name:  "toggle",
				Usage: "Add or remove a book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "book-id"},
				},
				Action: r.WishlistToggle,
			},
			{
				Name:  "list",
				Usage: "List your wishlist",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "cached", Usage: "Read from the local cache without a network call"},
				},
				Action: r.WishlistList,
			},
		},
	}
}

// followCommand handles the social graph
func followCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "follow",
		Usage: "Follow and unfollow other readers",
		Commands: []*cli.Command{
			{
				Name:  "toggle",
				Usage: "Follow a reader, or unfollow when already following",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "user-id"},
				},
				Action: r.FollowToggle,
			},
			{
				Name:  "status",
				Usage: "Check whether you follow a reader",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "user-id"},
				},
				Action: r.FollowStatus,
			},
		},
	}
}

// usersCommand finds other readers
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Find other readers",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search readers by username",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.UsersSearch,
			},
			{
				Name:  "profile",
				Usage: "Show a reader's profile and ratings",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "user-id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.UsersProfile,
			},
		},
	}
}

// exportCommand dumps the user's library to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export your profile, ratings, wishlist and recommendations as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory"},
			&cli.BoolFlag{Name: "combined", Usage: "Write a single library.json instead of per-section files"},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive BookMind client",
		Action:  r.TUI,
	}
}
