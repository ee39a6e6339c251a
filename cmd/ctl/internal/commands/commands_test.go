package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"realty/cmd/ctl/internal/commands"
	adminMocks "realty/internal/domains/admin/mocks"
	adminDto "realty/internal/domains/admin/model/dto"
	notifMocks "realty/internal/domains/notification/mocks"
	"realty/internal/domains/notification/model/dto"
	"realty/shared/constant"
)

func TestDigestCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		setupMock func(m *notifMocks.MockDigest)
		wantOut   string
		wantErr   bool
	}{
		{
			name: "explicit day",
			args: []string{"send", "--date", "2026-03-02"},
			setupMock: func(m *notifMocks.MockDigest) {
				m.EXPECT().
					Send(gomock.Any(), "2026-03-02").
					Return(dto.DigestResponse{Date: "2026-03-02", Count: 3, Sent: true}, nil)
			},
			wantOut: "2026-03-02: 3 reservations, sent=true\n",
		},
		{
			name: "today by default",
			args: []string{"send"},
			setupMock: func(m *notifMocks.MockDigest) {
				m.EXPECT().
					Send(gomock.Any(), "").
					Return(dto.DigestResponse{Date: "2026-03-02"}, nil)
			},
			wantOut: "2026-03-02: 0 reservations, sent=false\n",
		},
		{
			name:      "malformed day",
			args:      []string{"send", "--date", "02/03/2026"},
			setupMock: func(*notifMocks.MockDigest) {},
			wantErr:   true,
		},
		{
			name: "send failure",
			args: []string{"send"},
			setupMock: func(m *notifMocks.MockDigest) {
				m.EXPECT().
					Send(gomock.Any(), "").
					Return(dto.DigestResponse{}, errors.New("smtp down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDigest := notifMocks.NewMockDigest(ctrl)
			tt.setupMock(mockDigest)

			cmd := commands.NewDigestCommand(func() commands.DigestSender { return mockDigest })

			out := &bytes.Buffer{}
			cmd.SetOut(out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			err := cmd.ExecuteContext(context.Background())

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantOut, out.String())
		})
	}
}

func TestAdminCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		setupMock func(m *adminMocks.MockAdminService)
		wantErr   bool
	}{
		{
			name: "creates a superadmin",
			args: []string{"create", "--email", "owner@example.com", "--password", "s3cret-pass", "--name", "Owner"},
			setupMock: func(m *adminMocks.MockAdminService) {
				m.EXPECT().
					Bootstrap(gomock.Any(), adminDto.CreateAdminRequest{
						Email:    "owner@example.com",
						Password: "s3cret-pass",
						FullName: "Owner",
					}).
					Return(adminDto.AdminResponse{ID: "a1", Email: "owner@example.com", Role: constant.RoleSuperAdmin}, nil)
			},
		},
		{
			name:      "missing password",
			args:      []string{"create", "--email", "owner@example.com"},
			setupMock: func(*adminMocks.MockAdminService) {},
			wantErr:   true,
		},
		{
			name:      "short password",
			args:      []string{"create", "--email", "owner@example.com", "--password", "short"},
			setupMock: func(*adminMocks.MockAdminService) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockAdmin := adminMocks.NewMockAdminService(ctrl)
			tt.setupMock(mockAdmin)

			cmd := commands.NewAdminCommand(func() commands.AdminCreator { return mockAdmin })

			out := &bytes.Buffer{}
			cmd.SetOut(out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			err := cmd.ExecuteContext(context.Background())

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Contains(t, out.String(), "as superadmin")
		})
	}
}
