package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/config"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/db"
	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/leaderboard"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mathquiz",
	Short: "A timed arithmetic quiz",
	Long: `Mathquiz asks ten addition and subtraction problems against a
30 second clock. A correct first answer scores 10 points, a correct
second answer 5. Results are kept locally and ranked on a leaderboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, explicit := cfgFile, cfgFile != ""
		if !explicit {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path, explicit)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.mathquiz/config.yaml)")
}

func openStore() (*db.Store, error) {
	return db.NewStore(cfg.Storage.Path)
}

// openBoard returns the Redis leaderboard when Redis is configured and
// reachable, and the SQLite one otherwise. The returned func releases it.
func openBoard(ctx context.Context, store *db.Store) (leaderboard.Board, func()) {
	if cfg.Redis.Addr == "" {
		return leaderboard.NewSQLBoard(store), func() {}
	}

	client, err := leaderboard.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.MaxRetries)
	if err != nil {
		fmt.Println("⚠️  Redis unavailable, using the local leaderboard:", err)
		return leaderboard.NewSQLBoard(store), func() {}
	}
	return leaderboard.NewRedisBoard(client), func() { client.Close() }
}
