package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/pontohub/ponto-backend-go/internal/domain/auth"
	"github.com/pontohub/ponto-backend-go/internal/domain/vendor"
	"github.com/pontohub/ponto-backend-go/internal/pkg/jwt"
	"github.com/pontohub/ponto-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVendor struct {
	grantErr error
	userInfo vendor.UserInfo
	infoErr  error
}

func (f *fakeVendor) AcquireToken(ctx context.Context) (string, error) { return "tok", nil }

func (f *fakeVendor) PasswordGrant(ctx context.Context, username, password string) (string, error) {
	if f.grantErr != nil {
		return "", f.grantErr
	}
	return "vendor-tok", nil
}

func (f *fakeVendor) UserInfo(ctx context.Context, token string) (vendor.UserInfo, error) {
	return f.userInfo, f.infoErr
}

func (f *fakeVendor) ListBanks(ctx context.Context, token string) ([]vendor.Bank, error) {
	return nil, nil
}

func (f *fakeVendor) ListEmployees(ctx context.Context, token string, bankID int) vendor.ListResult[vendor.Employee] {
	return vendor.Ok[vendor.Employee](nil)
}

func (f *fakeVendor) ListDepartments(ctx context.Context, token string, bankID int) vendor.ListResult[vendor.Department] {
	return vendor.Ok[vendor.Department](nil)
}

func (f *fakeVendor) ListClockEvents(ctx context.Context, token string, bankID int, cpf, dateStart, dateEnd string) vendor.ListResult[vendor.ClockEvent] {
	return vendor.Ok[vendor.ClockEvent](nil)
}

func (f *fakeVendor) ListEquipment(ctx context.Context, token string, bankID int) ([]vendor.Equipment, error) {
	return nil, nil
}

func (f *fakeVendor) EquipmentEvents(ctx context.Context, token string, bankID, equipmentID int, dateStart, dateEnd string) vendor.ListResult[vendor.ClockEvent] {
	return vendor.Ok[vendor.ClockEvent](nil)
}

func newJWT() jwt.Service {
	return jwt.NewJWTService("test-secret", "24h")
}

func TestLogin_Success(t *testing.T) {
	client := &fakeVendor{userInfo: vendor.UserInfo{Name: "Maria Silva"}}
	svc := NewService(client, newJWT(), nil)

	got, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "maria@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.Token)
	assert.Equal(t, "Maria Silva", got.User.Name)
	assert.Equal(t, "user", got.User.Role)

	username, err := newJWTDecode(got.Token)
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", username)
}

func newJWTDecode(token string) (string, error) {
	return newJWT().ValidateSessionToken(token)
}

func TestLogin_BadCredentials(t *testing.T) {
	client := &fakeVendor{grantErr: &vendor.AuthError{StatusCode: http.StatusBadRequest}}
	svc := NewService(client, newJWT(), nil)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "maria@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_VendorDown(t *testing.T) {
	client := &fakeVendor{grantErr: vendor.ErrUnavailable}
	svc := NewService(client, newJWT(), nil)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "maria@example.com",
		Password: "secret",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UserInfoFailureStillLogsIn(t *testing.T) {
	client := &fakeVendor{infoErr: errors.New("timeout")}
	svc := NewService(client, newJWT(), nil)

	got, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "maria@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", got.User.Name, "falls back to the username")
}

func TestLogin_MissingFields(t *testing.T) {
	svc := NewService(&fakeVendor{}, newJWT(), nil)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}
