package directory

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/pontohub/ponto-backend-go/internal/domain/vendor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	tokenCalls    atomic.Int32
	token         string
	tokenErr      error
	banks         []vendor.Bank
	employees     map[int]vendor.ListResult[vendor.Employee]
	departments   map[int]vendor.ListResult[vendor.Department]
	clockEvents   vendor.ListResult[vendor.ClockEvent]
	equipment     []vendor.Equipment
	equipmentEvts vendor.ListResult[vendor.ClockEvent]
}

func (f *fakeClient) AcquireToken(ctx context.Context) (string, error) {
	f.tokenCalls.Add(1)
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return f.token, nil
}

func (f *fakeClient) PasswordGrant(ctx context.Context, username, password string) (string, error) {
	return f.AcquireToken(ctx)
}

func (f *fakeClient) UserInfo(ctx context.Context, token string) (vendor.UserInfo, error) {
	return vendor.UserInfo{}, nil
}

func (f *fakeClient) ListBanks(ctx context.Context, token string) ([]vendor.Bank, error) {
	return f.banks, nil
}

func (f *fakeClient) ListEmployees(ctx context.Context, token string, bankID int) vendor.ListResult[vendor.Employee] {
	return f.employees[bankID]
}

func (f *fakeClient) ListDepartments(ctx context.Context, token string, bankID int) vendor.ListResult[vendor.Department] {
	return f.departments[bankID]
}

func (f *fakeClient) ListClockEvents(ctx context.Context, token string, bankID int, cpf, dateStart, dateEnd string) vendor.ListResult[vendor.ClockEvent] {
	return f.clockEvents
}

func (f *fakeClient) ListEquipment(ctx context.Context, token string, bankID int) ([]vendor.Equipment, error) {
	return f.equipment, nil
}

func (f *fakeClient) EquipmentEvents(ctx context.Context, token string, bankID, equipmentID int, dateStart, dateEnd string) vendor.ListResult[vendor.ClockEvent] {
	return f.equipmentEvts
}

func TestToken_CachedAcrossCalls(t *testing.T) {
	client := &fakeClient{token: "tok"}
	svc := NewService(client, nil, nil)

	for i := 0; i < 3; i++ {
		token, err := svc.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok", token)
	}
	assert.Equal(t, int32(1), client.tokenCalls.Load(), "repeat calls within the TTL must reuse the cached token")
}

func TestCompanies_DeniedListingCountsZero(t *testing.T) {
	client := &fakeClient{
		token: "tok",
		banks: []vendor.Bank{{ID: 1, Name: "Alfa"}, {ID: 2, Name: "Beta"}},
		employees: map[int]vendor.ListResult[vendor.Employee]{
			1: vendor.Ok([]vendor.Employee{{ID: 10, Name: "Ana"}, {ID: 11, Name: "Bia"}}),
			2: vendor.Denied[vendor.Employee](&vendor.AuthError{StatusCode: http.StatusForbidden}),
		},
	}
	svc := NewService(client, nil, nil)

	companies, err := svc.Companies(context.Background())
	require.NoError(t, err, "a denied listing must not fail the companies call")
	require.Len(t, companies, 2)
	assert.Equal(t, 2, companies[0].EmployeeCount)
	assert.Equal(t, 0, companies[1].EmployeeCount)
}

func TestAllEmployees_SkipsFailedBanksAndStampsBankName(t *testing.T) {
	client := &fakeClient{
		token: "tok",
		banks: []vendor.Bank{{ID: 1, Name: "Alfa"}, {ID: 2, Name: "Beta"}},
		employees: map[int]vendor.ListResult[vendor.Employee]{
			1: vendor.Ok([]vendor.Employee{{ID: 10, Name: "Ana", BankID: 1}}),
			2: vendor.Denied[vendor.Employee](vendor.ErrUnavailable),
		},
	}
	svc := NewService(client, nil, nil)

	all, err := svc.AllEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Alfa", all[0].BankName)
}

func TestClockEvents_AuthErrorInvalidatesToken(t *testing.T) {
	client := &fakeClient{
		token:       "tok",
		clockEvents: vendor.Denied[vendor.ClockEvent](&vendor.AuthError{StatusCode: http.StatusUnauthorized}),
	}
	svc := NewService(client, nil, nil)

	_, err := svc.Token(context.Background())
	require.NoError(t, err)

	_, err = svc.ClockEvents(context.Background(), 1, "11122233344", "2025-10-01", "2025-10-03")
	require.Error(t, err)

	// The cached token was dropped, so the next call re-authenticates.
	_, err = svc.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), client.tokenCalls.Load())
}
