package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"meal-planner/internal/client"
	"meal-planner/internal/core/catalog"
	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"
)

const usage = `Usage: mealctl [flags] <command> [args]

Commands:
  shopping-list START END   aggregated shopping list for the date range
  schedule START END        planned meals for the date range
  import-recipe FILE        create or update a recipe from a JSON file

Dates use YYYY-MM-DD. Credentials default to MEALCTL_USER and MEALCTL_PASSWORD.

Flags:
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	common.Sync()
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "mealctl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	fs := flag.NewFlagSet("mealctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	server := fs.String("server", envOr(getenv, "MEALCTL_SERVER", "http://localhost:8080"), "API server base URL")
	user := fs.String("user", getenv("MEALCTL_USER"), "username")
	password := fs.String("password", getenv("MEALCTL_PASSWORD"), "password")
	verbose := fs.Bool("v", false, "log requests to stderr")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *verbose {
		if err := common.InitLogger("debug", ""); err != nil {
			return err
		}
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errUsage
	}
	cmd, cmdArgs := rest[0], rest[1:]

	if *user == "" || *password == "" {
		return fmt.Errorf("credentials required: set -user/-password or MEALCTL_USER/MEALCTL_PASSWORD")
	}

	c := client.New(*server)
	if err := c.Login(ctx, *user, *password); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	switch cmd {
	case "shopping-list":
		if len(cmdArgs) != 2 {
			fs.Usage()
			return errUsage
		}
		list, err := c.ShoppingList(ctx, cmdArgs[0], cmdArgs[1])
		if err != nil {
			return err
		}
		printShoppingList(stdout, list)
	case "schedule":
		if len(cmdArgs) != 2 {
			fs.Usage()
			return errUsage
		}
		meals, err := c.Schedule(ctx, cmdArgs[0], cmdArgs[1])
		if err != nil {
			return err
		}
		printSchedule(stdout, meals)
	case "import-recipe":
		if len(cmdArgs) != 1 {
			fs.Usage()
			return errUsage
		}
		recipe, err := readRecipe(cmdArgs[0])
		if err != nil {
			return err
		}
		result, err := c.ImportRecipe(ctx, recipe)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "recipe %q %s (id %d)\n", recipe.Name, result.Result, result.ID)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return errUsage
	}
	return nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func readRecipe(path string) (catalog.RecipeInput, error) {
	var recipe catalog.RecipeInput
	f, err := os.Open(path)
	if err != nil {
		return recipe, err
	}
	defer f.Close()

	if err := common.DecodeJSONStrict(f, &recipe); err != nil {
		return recipe, fmt.Errorf("parse %s: %w", path, err)
	}
	return recipe, nil
}

func printShoppingList(w io.Writer, list map[string]float64) {
	if len(list) == 0 {
		fmt.Fprintln(w, "nothing to buy")
		return
	}
	labels := make([]string, 0, len(list))
	for label := range list {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(w, "%s: %g\n", label, list[label])
	}
}

func printSchedule(w io.Writer, meals []model.Meal) {
	if len(meals) == 0 {
		fmt.Fprintln(w, "no meals planned")
		return
	}
	for _, meal := range meals {
		fmt.Fprintf(w, "%s %s\n", meal.Date, meal.Type.DisplayName())
		for _, dish := range meal.Dishes {
			name := "?"
			if dish.Recipe != nil {
				name = dish.Recipe.Name
			}
			fmt.Fprintf(w, "  %s x%d\n", name, dish.Portions)
		}
		for _, extra := range meal.Extras {
			name := "?"
			if extra.Item != nil {
				name = extra.Item.Name
			}
			fmt.Fprintf(w, "  + %s %g %s\n", name, extra.Amount, extra.Unit.DisplayName())
		}
	}
}
