package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"realty/config"
	"realty/infras/otel/mocks"
	adminMocks "realty/internal/domains/admin/mocks"
	"realty/internal/domains/admin/model"
	"realty/internal/domains/admin/model/dto"
	"realty/internal/domains/admin/service"
	cacheMocks "realty/shared/cache/mocks"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	"realty/shared/failure"
	"realty/shared/password"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T) (*adminMocks.MockAdmin, *cacheMocks.MockRedisCache, service.Admin) {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := adminMocks.NewMockAdmin(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Clear(gomock.Any(), "admin:*").Return(nil).AnyTimes()
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	return repo, cache, service.New(repo, cfg, cache, mocks.NewOtel())
}

func asUser(id string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, id)
}

func TestAdminService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateAdminRequest
		setupMock func(repo *adminMocks.MockAdmin)
		wantCode  int
		wantRole  string
	}{
		{
			name: "hashes the password and defaults the role",
			req:  dto.CreateAdminRequest{Email: " Editor@Example.com ", Password: "s3cretpass", FullName: "Editor"},
			setupMock: func(repo *adminMocks.MockAdmin) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
						assert.Equal(t, "editor@example.com", filter.Filters[0].(gDto.Filter).Value)

						return false, nil
					})
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m model.AdminUser) error {
						assert.Equal(t, "editor@example.com", m.Email)
						assert.NoError(t, password.Verify("s3cretpass", m.Password))
						assert.Equal(t, "root-1", m.CreatedBy)
						assert.True(t, m.Active)

						return nil
					})
			},
			wantRole: constant.RoleAdmin,
		},
		{
			name: "email taken",
			req:  dto.CreateAdminRequest{Email: "editor@example.com", Password: "s3cretpass"},
			setupMock: func(repo *adminMocks.MockAdmin) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "email taken concurrently",
			req:  dto.CreateAdminRequest{Email: "editor@example.com", Password: "s3cretpass"},
			setupMock: func(repo *adminMocks.MockAdmin) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			wantCode: http.StatusConflict,
		},
		{
			name:      "password past the bcrypt limit",
			req:       dto.CreateAdminRequest{Email: "editor@example.com", Password: strings.Repeat("x", 73)},
			setupMock: func(*adminMocks.MockAdmin) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "lookup failure",
			req:  dto.CreateAdminRequest{Email: "editor@example.com", Password: "s3cretpass"},
			setupMock: func(repo *adminMocks.MockAdmin) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, svc := newService(t)
			tt.setupMock(repo)

			res, err := svc.Create(asUser("root-1"), tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, res.Role)
		})
	}
}

func TestAdminService_Bootstrap(t *testing.T) {
	repo, _, svc := newService(t)

	repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m model.AdminUser) error {
			assert.Equal(t, constant.RoleSuperAdmin, m.Role)
			assert.Equal(t, "system", m.CreatedBy)

			return nil
		})

	res, err := svc.Bootstrap(context.Background(), dto.CreateAdminRequest{Email: "owner@example.com", Password: "s3cretpass", Role: constant.RoleAdmin})

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, constant.RoleSuperAdmin, res.Role)
}

func TestAdminService_Update(t *testing.T) {
	inactive := false

	tests := []struct {
		name      string
		req       dto.UpdateAdminRequest
		id        string
		setupMock func(repo *adminMocks.MockAdmin)
		wantCode  int
	}{
		{
			name: "renames another admin",
			req:  dto.UpdateAdminRequest{FullName: "New Name"},
			id:   "admin-2",
			setupMock: func(repo *adminMocks.MockAdmin) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "New Name", fields[model.FieldFullName])

						return nil
					})
			},
		},
		{
			name:      "empty request",
			id:        "admin-2",
			setupMock: func(*adminMocks.MockAdmin) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "cannot deactivate self",
			req:       dto.UpdateAdminRequest{Active: &inactive},
			id:        "root-1",
			setupMock: func(*adminMocks.MockAdmin) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "cannot demote self",
			req:       dto.UpdateAdminRequest{Role: constant.RoleAdmin},
			id:        "root-1",
			setupMock: func(*adminMocks.MockAdmin) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "not found",
			req:  dto.UpdateAdminRequest{FullName: "x"},
			id:   "missing",
			setupMock: func(repo *adminMocks.MockAdmin) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, svc := newService(t)
			tt.setupMock(repo)

			err := svc.Update(asUser("root-1"), tt.req, tt.id)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestAdminService_Delete(t *testing.T) {
	t.Run("cannot delete self", func(t *testing.T) {
		_, _, svc := newService(t)

		err := svc.Delete(asUser("root-1"), "root-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("deletes another admin", func(t *testing.T) {
		repo, _, svc := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, svc.Delete(asUser("root-1"), "admin-2"))

		time.Sleep(10 * time.Millisecond)
	})
}

func TestAdminService_Get(t *testing.T) {
	repo, cache, svc := newService(t)

	cache.EXPECT().Get(gomock.Any(), "admin:get:admin-2", gomock.Any()).Return(errors.New("miss"))
	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.AdminUser{ID: "admin-2", Email: "a@example.com", Password: "hash"}, nil)

	res, err := svc.Get(context.Background(), "admin-2")

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, "a@example.com", res.Email)
}
