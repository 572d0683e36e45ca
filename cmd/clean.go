package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete all stored conversations and preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()

			if !force {
				fmt.Print("Delete all conversations and preferences? [y/N] ")
				line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
				if strings.ToLower(strings.TrimSpace(line)) != "y" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			kv, err := openKV(cfg)
			if err != nil {
				return err
			}
			defer kv.Close()

			if err := kv.Clear(); err != nil {
				return fmt.Errorf("clear store: %w", err)
			}
			fmt.Println("Store cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
