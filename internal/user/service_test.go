package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
	"github.com/MrJamesThe3rd/pocketbook/internal/user"
)

func TestService_Register(t *testing.T) {
	type testCase struct {
		name      string
		params    user.RegisterParams
		setupMock func(repo *user.MockRepository, tokens *user.MockTokenIssuer)
		wantToken string
		wantErr   error
	}

	valid := user.RegisterParams{Name: "Ana", Email: " Ana@Example.com ", Password: "s3cret-pass"}

	tests := []testCase{
		{
			name:   "Success",
			params: valid,
			setupMock: func(repo *user.MockRepository, tokens *user.MockTokenIssuer) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *user.User) error {
						assert.Equal(t, "ana@example.com", u.Email)
						assert.Equal(t, user.DefaultCurrency, u.Currency)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))

						u.ID = uuid.New()

						return nil
					})
				tokens.EXPECT().Issue(gomock.Any(), "ana@example.com").Return("tok", nil)
			},
			wantToken: "tok",
		},
		{
			name:   "TokenFailureIsSwallowed",
			params: valid,
			setupMock: func(repo *user.MockRepository, tokens *user.MockTokenIssuer) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				tokens.EXPECT().Issue(gomock.Any(), gomock.Any()).Return("", errors.New("signing key missing"))
			},
			wantToken: "",
		},
		{
			name:   "DuplicateEmail",
			params: valid,
			setupMock: func(repo *user.MockRepository, _ *user.MockTokenIssuer) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apperr.ErrDuplicateName)
			},
			wantErr: apperr.ErrDuplicateName,
		},
		{
			name:    "ShortPassword",
			params:  user.RegisterParams{Name: "Ana", Email: "ana@example.com", Password: "short"},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "BadEmail",
			params:  user.RegisterParams{Name: "Ana", Email: "not-an-email", Password: "s3cret-pass"},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "UnknownCurrency",
			params:  user.RegisterParams{Name: "Ana", Email: "ana@example.com", Password: "s3cret-pass", Currency: "XYZW"},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "MissingName",
			params:  user.RegisterParams{Email: "ana@example.com", Password: "s3cret-pass"},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := user.NewMockRepository(ctrl)
			tokens := user.NewMockTokenIssuer(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tokens)
			}

			svc := user.NewService(repo, tokens)
			got, err := svc.Register(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got.User)
			assert.Equal(t, tt.wantToken, got.Token)
		})
	}
}

func TestService_UpdateProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := user.NewMockRepository(ctrl)
	svc := user.NewService(repo, user.NewMockTokenIssuer(ctrl))

	actor := uuid.New()
	stored := &user.User{ID: actor, Name: "Ana", Email: "ana@example.com", Currency: "COP"}

	repo.EXPECT().Get(gomock.Any(), actor).Return(stored, nil).Times(2)
	repo.EXPECT().Update(gomock.Any(), stored).Return(nil)

	currency := "EUR"
	got, err := svc.UpdateProfile(context.Background(), actor, user.UpdateParams{Currency: &currency})
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)

	bad := "ZZZ"
	_, err = svc.UpdateProfile(context.Background(), actor, user.UpdateParams{Currency: &bad})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestService_UserIDByEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := user.NewMockRepository(ctrl)
	svc := user.NewService(repo, user.NewMockTokenIssuer(ctrl))

	id := uuid.New()
	repo.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(&user.User{ID: id}, nil)

	got, err := svc.UserIDByEmail(context.Background(), "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
