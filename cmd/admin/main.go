package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	app := &adminApp{}

	root := &cobra.Command{
		Use:           "admin",
		Short:         "Inspect and edit SkillSwap data from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}
	root.PersistentFlags().StringVar(&app.dataFile, "data", "", "local snapshot file (defaults to DATA_FILE)")
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		skillsCmd(app),
		requestsCmd(app),
		chatsCmd(app),
		messagesCmd(app),
		seedCmd(app),
		snapshotCmd(app),
	)
	return root
}

func skillsCmd(app *adminApp) *cobra.Command {
	cmd := &cobra.Command{Use: "skills", Short: "Manage skills"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all skills, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			skills, err := app.svc.ListSkills(cmd.Context())
			if err != nil {
				return err
			}
			return app.print(cmd, skills)
		},
	})

	var owner, title, description string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a skill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			skill, err := app.svc.AddSkill(cmd.Context(), newSkill(owner, title, description))
			if err != nil {
				return err
			}
			return app.print(cmd, skill)
		},
	}
	add.Flags().StringVar(&owner, "owner", "", "owning username")
	add.Flags().StringVar(&title, "title", "", "skill title")
	add.Flags().StringVar(&description, "description", "", "skill description")
	markRequired(add, "owner", "title", "description")
	cmd.AddCommand(add)

	var actingUser string
	del := &cobra.Command{
		Use:   "delete <skill-id>",
		Short: "Delete a skill as its owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.svc.DeleteSkill(cmd.Context(), args[0], actingUser); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Skill %s deleted.\n", args[0])
			return nil
		},
	}
	del.Flags().StringVar(&actingUser, "as", "", "username performing the delete")
	markRequired(del, "as")
	cmd.AddCommand(del)

	return cmd
}

func requestsCmd(app *adminApp) *cobra.Command {
	cmd := &cobra.Command{Use: "requests", Short: "Inspect learning requests"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list <username>",
		Short: "List requests made by a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := app.svc.ListRequests(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.print(cmd, reqs)
		},
	})
	return cmd
}

func chatsCmd(app *adminApp) *cobra.Command {
	cmd := &cobra.Command{Use: "chats", Short: "Manage chat rooms"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <username>",
		Short: "List a user's chats, most recently active first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := app.svc.ListChatRooms(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.print(cmd, rooms)
		},
	})

	var skillTitle string
	open := &cobra.Command{
		Use:   "open <user> <user>",
		Short: "Open the chat between two users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			room, err := app.svc.CreateChatRoom(cmd.Context(), args[0], args[1], skillTitle)
			if err != nil {
				return err
			}
			return app.print(cmd, room)
		},
	}
	open.Flags().StringVar(&skillTitle, "skill", "", "skill the chat is about")
	cmd.AddCommand(open)

	return cmd
}

func messagesCmd(app *adminApp) *cobra.Command {
	cmd := &cobra.Command{Use: "messages", Short: "Read and send chat messages"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <chat-id>",
		Short: "List a chat's messages, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := app.svc.ListMessages(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.print(cmd, msgs)
		},
	})

	var from string
	send := &cobra.Command{
		Use:   "send <chat-id> <text>",
		Short: "Send a message to a chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := app.svc.SendMessage(cmd.Context(), args[0], from, args[1])
			if err != nil {
				return err
			}
			return app.print(cmd, msg)
		},
	}
	send.Flags().StringVar(&from, "from", "", "sending username")
	markRequired(send, "from")
	cmd.AddCommand(send)

	return cmd
}

func seedCmd(app *adminApp) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the sample skills if there are none",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d sample skills.\n", n)
			return nil
		},
	}
}

func snapshotCmd(app *adminApp) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Print the whole local mirror",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.print(cmd, app.svc.Mirror.Snapshot())
		},
	}
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			log.Fatalf("flag %s: %v", name, err)
		}
	}
}
