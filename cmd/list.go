package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdschat/sdschat/internal/chat"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored conversations, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()

			kv, err := openKV(cfg)
			if err != nil {
				return err
			}
			defer kv.Close()

			store := chat.NewStore(kv, nil)
			store.Initialize(cfg.DarkDefault())
			defer store.Flush()

			activeID := store.ActiveID()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tMESSAGES\tCREATED")
			for _, c := range store.History() {
				marker := " "
				if c.ID == activeID {
					marker = "*"
				}
				created := time.UnixMilli(c.Timestamp).Format("2006-01-02 15:04")
				fmt.Fprintf(w, "%s %s\t%s\t%d\t%s\n", marker, c.ID, c.Title, len(c.Messages), created)
			}
			return w.Flush()
		},
	}
}
