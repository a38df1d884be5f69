package authservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/pkg/auth"
)

func NewMock(t *testing.T) (*Service, *MockRepo) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepo(ctrl)
	service := New(mockRepo, &auth.HashService{}, auth.NewJWTService("test-secret"))
	return service, mockRepo
}

func TestRegister(t *testing.T) {
	service, mockRepo := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		email         string
		password      string
		userName      string
		mockSetup     func()
		expectedError error
	}{
		{
			name:     "Successful Registration",
			email:    "billing@acme.example",
			password: "s3cret-pass",
			userName: "Acme GmbH",
			mockSetup: func() {
				mockRepo.EXPECT().FindByEmail(ctx, "billing@acme.example").Return(nil, nil)
				mockRepo.EXPECT().
					Create(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
						assert.NotEmpty(t, user.ID)
						assert.Equal(t, "billing@acme.example", user.Email)
						assert.Equal(t, "Acme GmbH", user.Name)
						assert.Equal(t, RoleCustomer, user.Role)
						assert.NotEmpty(t, user.PasswordHash)
						assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
						return user, nil
					})
			},
			expectedError: nil,
		},
		{
			name:     "Email Already Taken",
			email:    "billing@acme.example",
			password: "s3cret-pass",
			mockSetup: func() {
				mockRepo.EXPECT().
					FindByEmail(ctx, "billing@acme.example").
					Return(&domain.User{ID: "user-1", Email: "billing@acme.example"}, nil)
			},
			expectedError: ErrEmailTaken,
		},
		{
			name:     "Empty Password",
			email:    "billing@acme.example",
			password: "",
			mockSetup: func() {
				mockRepo.EXPECT().FindByEmail(ctx, "billing@acme.example").Return(nil, nil)
			},
			expectedError: errors.New("password cannot be empty"),
		},
		{
			name:     "Lookup Error",
			email:    "billing@acme.example",
			password: "s3cret-pass",
			mockSetup: func() {
				mockRepo.EXPECT().
					FindByEmail(ctx, "billing@acme.example").
					Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name:     "Create Error",
			email:    "billing@acme.example",
			password: "s3cret-pass",
			mockSetup: func() {
				mockRepo.EXPECT().FindByEmail(ctx, "billing@acme.example").Return(nil, nil)
				mockRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			user, err := service.Register(ctx, tt.email, tt.password, tt.userName)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	service, mockRepo := NewMock(t)
	ctx := context.Background()

	hashService := &auth.HashService{}
	passwordHash, err := hashService.HashPassword("s3cret-pass")
	assert.NoError(t, err)
	user := &domain.User{ID: "user-1", Email: "billing@acme.example", PasswordHash: passwordHash, Role: RoleCustomer}

	tests := []struct {
		name          string
		password      string
		mockSetup     func()
		expectedError error
	}{
		{
			name:     "Successful Authentication",
			password: "s3cret-pass",
			mockSetup: func() {
				mockRepo.EXPECT().FindByEmail(ctx, "billing@acme.example").Return(user, nil)
			},
			expectedError: nil,
		},
		{
			name:     "Wrong Password",
			password: "wrong-pass",
			mockSetup: func() {
				mockRepo.EXPECT().FindByEmail(ctx, "billing@acme.example").Return(user, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Unknown Email",
			password: "s3cret-pass",
			mockSetup: func() {
				mockRepo.EXPECT().FindByEmail(ctx, "billing@acme.example").Return(nil, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Lookup Error",
			password: "s3cret-pass",
			mockSetup: func() {
				mockRepo.EXPECT().
					FindByEmail(ctx, "billing@acme.example").
					Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			got, err := service.Authenticate(ctx, "billing@acme.example", tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, user, got)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	service, _ := NewMock(t)
	user := &domain.User{ID: "user-1", Email: "billing@acme.example", Role: RoleCustomer}

	token, err := service.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := auth.NewJWTService("test-secret").ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "billing@acme.example", claims.Email)
	assert.Equal(t, RoleCustomer, claims.Role)
}
