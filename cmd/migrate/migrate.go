package migrate

import (
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

func GetMigrateCmd(dbURL string) *cobra.Command {
	var (
		down   bool
		source string
	)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the users and extension_users schema",
		Run: func(cmd *cobra.Command, args []string) {
			m, err := migrate.New("file://"+source, dbURL)
			if err != nil {
				log.Fatal("❌ Failed to initialize migrations:", err)
			}
			defer m.Close()

			if down {
				err := m.Down()
				var dirty migrate.ErrDirty
				switch {
				case err == nil:
					fmt.Println("✅ Migrations rolled back successfully!")
				case errors.Is(err, migrate.ErrNoChange):
					fmt.Println("⚠️ No migrations to rollback.")
				case errors.As(err, &dirty):
					fmt.Printf("⚠️ Database is dirty at version %d. Forcing it and retrying...\n", dirty.Version)
					if err := m.Force(dirty.Version); err != nil {
						log.Fatal("❌ Failed to force migration version:", err)
					}
					if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						log.Fatal("❌ Failed to apply down migrations:", err)
					}
					fmt.Println("✅ Migrations rolled back successfully!")
				default:
					log.Fatal("❌ Failed to apply down migrations:", err)
				}
				return
			}

			if err := m.Up(); err != nil {
				if errors.Is(err, migrate.ErrNoChange) {
					fmt.Println("⚠️ No new migrations to apply.")
					return
				}
				log.Fatal("❌ Failed to apply up migrations:", err)
			}

			fmt.Println("✅ Migrations applied successfully!")
		},
	}

	migrateCmd.Flags().BoolVarP(&down, "down", "d", false, "Rollback migrations")
	migrateCmd.Flags().StringVar(&source, "source", "migrations", "Directory with the migration files")

	return migrateCmd
}
