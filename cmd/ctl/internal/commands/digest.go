package commands

import (
	"context"
	"fmt"
	"realty/internal/domains/notification/model/dto"
	"realty/shared/validator"

	"github.com/spf13/cobra"
)

type DigestSender interface {
	Send(ctx context.Context, day string) (dto.DigestResponse, error)
}

func NewDigestCommand(sender func() DigestSender) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Daily digest operations",
	}

	send := &cobra.Command{
		Use:   "send",
		Short: "Mail the operator agenda of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, _ := cmd.Flags().GetString("date")

			req := dto.DigestRequest{Date: day}
			if err := validator.ValidateStruct(&req); err != nil {
				return err
			}

			res, err := sender().Send(cmd.Context(), req.Date)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d reservations, sent=%t\n", res.Date, res.Count, res.Sent)

			return nil
		},
	}

	send.Flags().String("date", "", "day as YYYY-MM-DD, today in the business timezone when empty")

	cmd.AddCommand(send)

	return cmd
}
