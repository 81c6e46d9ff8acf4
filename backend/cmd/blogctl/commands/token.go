package commands

import (
	"fmt"
	"strconv"

	"github.com/codingbrain01/MyBlog/shared/domain"
	"github.com/codingbrain01/MyBlog/shared/jwt"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint an access token for a user id",
	Long: `Sign an access token with the configured jwt_key, for local testing
without the auth provider.

Examples:
  blogctl token 42
  curl -H "Authorization: Bearer $(blogctl token 42)" localhost:8080/v1/posts`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || uid <= 0 {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		token, err := jwt.New(cfg.JwtKey(), cfg.JwtTTL()).NewToken(domain.User{Id: uid})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
