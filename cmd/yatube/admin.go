package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/database"
	"github.com/d60-Lab/yatube/pkg/logger"
)

func newMigrateCommand() *cobra.Command {
	flags := withConfigFlag(nil)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			db, err := database.InitDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

// withApp 为管理命令打开完整的服务集合，结束时等待图片清理完成
func withApp(flags map[string]cobraflags.Flag, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.Close(closeCtx)
	}()
	return fn(ctx, a)
}

const (
	titleFlag       = "title"
	slugFlag        = "slug"
	descriptionFlag = "description"
	usernameFlag    = "username"
)

func newGroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}

	createFlags := withConfigFlag(map[string]cobraflags.Flag{
		titleFlag: &cobraflags.StringFlag{
			Name:  titleFlag,
			Value: "",
			Usage: "Group title (required)",
		},
		slugFlag: &cobraflags.StringFlag{
			Name:  slugFlag,
			Value: "",
			Usage: "URL slug; derived from the title when empty",
		},
		descriptionFlag: &cobraflags.StringFlag{
			Name:  descriptionFlag,
			Value: "",
			Usage: "Group description",
		},
	})
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(createFlags, func(ctx context.Context, a *app) error {
				g, err := a.groups.Create(ctx, service.GroupInput{
					Title:       createFlags[titleFlag].GetString(),
					Slug:        createFlags[slugFlag].GetString(),
					Description: createFlags[descriptionFlag].GetString(),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "group %q created with slug %q\n", g.Title, g.Slug)
				return nil
			})
		},
	}
	cobraflags.RegisterMap(create, createFlags)

	deleteFlags := withConfigFlag(map[string]cobraflags.Flag{
		slugFlag: &cobraflags.StringFlag{
			Name:  slugFlag,
			Value: "",
			Usage: "Slug of the group to delete (required); its posts are kept without a group",
		},
	})
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sl := deleteFlags[slugFlag].GetString()
			if sl == "" {
				return errors.New("--slug is required")
			}
			return withApp(deleteFlags, func(ctx context.Context, a *app) error {
				if err := a.groups.Delete(ctx, sl); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "group %q deleted\n", sl)
				return nil
			})
		},
	}
	cobraflags.RegisterMap(del, deleteFlags)

	cmd.AddCommand(create, del)
	return cmd
}

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	deleteFlags := withConfigFlag(map[string]cobraflags.Flag{
		usernameFlag: &cobraflags.StringFlag{
			Name:  usernameFlag,
			Value: "",
			Usage: "User to delete together with their posts, comments and follows (required)",
		},
	})
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user and everything they authored",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username := deleteFlags[usernameFlag].GetString()
			if username == "" {
				return errors.New("--username is required")
			}
			return withApp(deleteFlags, func(ctx context.Context, a *app) error {
				if err := a.users.Delete(ctx, username); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %q deleted\n", username)
				return nil
			})
		},
	}
	cobraflags.RegisterMap(del, deleteFlags)

	cmd.AddCommand(del)
	return cmd
}
