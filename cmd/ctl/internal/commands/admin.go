package commands

import (
	"context"
	"fmt"
	"realty/internal/domains/admin/model/dto"
	"realty/shared/validator"

	"github.com/spf13/cobra"
)

type AdminCreator interface {
	Bootstrap(ctx context.Context, req dto.CreateAdminRequest) (dto.AdminResponse, error)
}

func NewAdminCommand(creator func() AdminCreator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin user operations",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a superadmin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := dto.CreateAdminRequest{}
			req.Email, _ = cmd.Flags().GetString("email")
			req.Password, _ = cmd.Flags().GetString("password")
			req.FullName, _ = cmd.Flags().GetString("name")

			if err := validator.ValidateStruct(&req); err != nil {
				return err
			}

			res, err := creator().Bootstrap(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) as %s\n", res.Email, res.ID, res.Role)

			return nil
		},
	}

	create.Flags().String("email", "", "login email")
	create.Flags().String("password", "", "initial password, at least 8 characters")
	create.Flags().String("name", "", "display name")

	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)

	return cmd
}
