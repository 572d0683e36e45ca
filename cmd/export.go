package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdschat/sdschat/internal/chat"
	"github.com/sdschat/sdschat/internal/export"
)

func newExportCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "export [conversation-id]",
		Short: "Export a conversation as markdown",
		Long: "Export writes a conversation to the export directory as a markdown\n" +
			"document. Without an id the active conversation is exported; ids are\n" +
			"shown by the list subcommand.",
		Args: cobra.MaximumNArgs(1),
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

			var convs []*chat.Conversation
			switch {
			case all:
				convs = store.History()
			case len(args) == 1:
				c, ok := store.Conversation(args[0])
				if !ok {
					return fmt.Errorf("no conversation with id %q", args[0])
				}
				convs = append(convs, c)
			default:
				convs = append(convs, store.Active())
			}

			for _, c := range convs {
				path, err := export.Write(c, cfg.ExportDir)
				if err != nil {
					return err
				}
				fmt.Println(path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "export every conversation")
	return cmd
}
