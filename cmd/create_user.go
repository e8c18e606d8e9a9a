package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/services"
)

var newUser struct {
	username string
	email    string
	password string
	role     string
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an activated staff user and print its API key",
	Long:  "Create an activated staff user and print its API key. Use it to bootstrap the first admin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		user, apiKey, err := a.users.CreateUser(cmd.Context(), services.StaffInput{
			Username: newUser.username,
			Email:    newUser.email,
			Password: newUser.password,
			Role:     models.Role(newUser.role),
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Fprintf(os.Stdout, "User %d (%s, %s) created.\nAPI key: %s\n", user.ID, user.Email, user.Role, apiKey)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&newUser.username, "username", "", "username")
	createUserCmd.Flags().StringVar(&newUser.email, "email", "", "email address")
	createUserCmd.Flags().StringVar(&newUser.password, "password", "", "password")
	createUserCmd.Flags().StringVar(&newUser.role, "role", string(models.RoleAdmin), "admin, maintainer or viewer")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}
