package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/DC-BSU-RAK/skills-portfolio-theLunaverse/internal/db"
	"github.com/spf13/cobra"
)

var forceDelete bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a finished quiz",
	Long: `Delete a finished quiz and its answers.
The Redis leaderboard keeps best scores separately and is not changed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("❌ Invalid ID")
			return
		}

		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		if !forceDelete {
			fmt.Printf("⚠️  Are you sure you want to delete quiz %d? (y/N): ", id)
			reader := bufio.NewReader(os.Stdin)
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(strings.ToLower(input))
			if input != "y" && input != "yes" {
				fmt.Println("❌ Cancelled.")
				return
			}
		}

		err = store.DeleteResult(context.Background(), id)
		if errors.Is(err, db.ErrNotFound) {
			fmt.Printf("❌ No quiz with ID %d\n", id)
			return
		}
		if err != nil {
			fmt.Println("❌ Error deleting quiz:", err)
			return
		}

		fmt.Println("✅ Quiz deleted.")
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Skip confirmation")
}
