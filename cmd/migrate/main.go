package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"vendora/internal/config"
)

const migrationsDir = "db/migrations"

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  up          apply all pending migrations")
	fmt.Fprintln(os.Stderr, "  down        revert all migrations")
	fmt.Fprintln(os.Stderr, "  steps <n>   apply n migrations; negative n reverts")
	fmt.Fprintln(os.Stderr, "  force <v>   set version v and clear a dirty state")
	fmt.Fprintln(os.Stderr, "  version     print the current schema version")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	m, err := migrate.New("file://"+migrationsDir, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("opening migrations: %v", err)
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		finish(m.Up(), "schema migrated up")

	case "down":
		finish(m.Down(), "schema migrated down")

	case "steps":
		n := intArg("steps")
		finish(m.Steps(n), fmt.Sprintf("applied %d steps", n))

	case "force":
		v := intArg("force")
		if err := m.Force(v); err != nil {
			log.Fatalf("force: %v", err)
		}
		log.Printf("schema version forced to %d", v)

	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied yet")
			return
		}
		if err != nil {
			log.Fatalf("version: %v", err)
		}
		fmt.Printf("schema version %d (dirty=%v)\n", v, dirty)

	default:
		usage()
	}
}

func intArg(cmd string) int {
	if len(os.Args) < 3 {
		log.Fatalf("%s needs a numeric argument", cmd)
	}
	n, err := strconv.Atoi(os.Args[2])
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
	return n
}

func finish(err error, msg string) {
	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("schema already up to date")
		return
	}
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println(msg)
}
