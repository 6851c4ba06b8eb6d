package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bookreview/pkg/domain"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and update your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE:  runProfileShow,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile",
	RunE:  runProfileUpdate,
}

var (
	profileUsername string
	profileEmail    string
	profileBio      string
)

func init() {
	profileUpdateCmd.Flags().StringVar(&profileUsername, "username", "", "new username")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "new email")
	profileUpdateCmd.Flags().StringVar(&profileBio, "bio", "", "new bio")
	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	me, err := app.Users.Me(cmd.Context())
	if err != nil {
		return err
	}
	// Keep the persisted identity in step with the authoritative profile.
	if err := app.Sessions.SetUser(&me); err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", me.Username, me.Email)
	if me.Bio != "" {
		fmt.Printf("Bio: %s\n", me.Bio)
	}
	return nil
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("username") && !flags.Changed("email") && !flags.Changed("bio") {
		return errors.New("nothing to update: pass --username, --email, or --bio")
	}
	me, err := app.Users.Me(cmd.Context())
	if err != nil {
		return err
	}
	upd := domain.UserUpdate{}
	if flags.Changed("username") {
		upd.Username = profileUsername
	}
	if flags.Changed("email") {
		upd.Email = profileEmail
	}
	if flags.Changed("bio") {
		upd.Bio = profileBio
	}
	updated, err := app.Users.Update(cmd.Context(), me.ID, upd)
	if err != nil {
		return err
	}
	if err := app.Sessions.SetUser(&updated); err != nil {
		return err
	}
	fmt.Printf("Profile updated: %s <%s>\n", updated.Username, updated.Email)
	return nil
}
